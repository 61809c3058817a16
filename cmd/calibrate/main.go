package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"strconv"

	"barocal/calib"
	"barocal/track"
	"barocal/tracklog"
)

func main() {
	method := flag.String("method", calib.OffsetAlt.String(), "Calibration method: offset-alt-1pt, linear-alt, quadratic-alt, offset-press, scale-press-1pt, linear-press")
	refMode := flag.String("reference", calib.RefAvgGPS.String(), "Reference altitude: avg-gps, gps1, gps2")
	allShared := flag.Bool("all-shared", false, "Fit over every shared second instead of the leading window")
	seconds := flag.Int("seconds", 60, "Calibration window length in shared seconds")
	robust := flag.Bool("robust", true, "Robust fitting (outlier pruning + IRLS)")
	sigma := flag.Float64("outlier-sigma", 4.0, "Outlier pruning threshold in robust scales")
	vsLimit := flag.Float64("vs-limit", 0, "Reference vertical speed limit m/s for calibration samples (0 disables)")
	outPath := flag.String("out", "", "Optional calibrated series CSV path")
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Println("usage: calibrate [flags] <track1> <track2>")
		flag.PrintDefaults()
		os.Exit(1)
	}

	opts := calib.DefaultOptions()
	var err error
	if opts.Method, err = calib.ParseMethod(*method); err != nil {
		fmt.Printf("invalid method: %v\n", err)
		os.Exit(1)
	}
	if opts.Reference, err = calib.ParseReferenceMode(*refMode); err != nil {
		fmt.Printf("invalid reference: %v\n", err)
		os.Exit(1)
	}
	opts.UseAllShared = *allShared
	opts.CalibrationSeconds = *seconds
	opts.Robust = *robust
	opts.OutlierSigma = *sigma
	if *vsLimit > 0 {
		opts.VerticalSpeedLimit = *vsLimit
	}

	t1, err := tracklog.Load(flag.Arg(0))
	if err != nil {
		fmt.Printf("load %s failed: %v\n", flag.Arg(0), err)
		os.Exit(1)
	}
	t2, err := tracklog.Load(flag.Arg(1))
	if err != nil {
		fmt.Printf("load %s failed: %v\n", flag.Arg(1), err)
		os.Exit(1)
	}

	res := calib.Compute(t1, t2, opts)
	if res.PointsUsed == 0 {
		fmt.Println("no shared seconds with usable altitudes; nothing to calibrate")
		os.Exit(1)
	}

	fmt.Printf("method: %s, reference: %s, points used: %d\n", opts.Method, opts.Reference, res.PointsUsed)
	printParams(t1.Name, res.Baro1.Params)
	printParams(t2.Name, res.Baro2.Params)
	fmt.Printf("baro1-baro2 after calibration: mean %+.2f m, p95 |diff| %.2f m, max |diff| %.2f m\n",
		res.BaroDiff.Mean, res.BaroDiff.P95Abs, res.BaroDiff.MaxAbs)
	fmt.Printf("gps1-gps2 raw:                 mean %+.2f m, p95 |diff| %.2f m, max |diff| %.2f m\n",
		res.GPSDiff.Mean, res.GPSDiff.P95Abs, res.GPSDiff.MaxAbs)

	if *outPath != "" {
		if err := writeSeriesCSV(*outPath, t1, t2, res); err != nil {
			fmt.Printf("write %s failed: %v\n", *outPath, err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", *outPath)
	}
}

func printParams(label string, p calib.Params) {
	switch p.Method {
	case calib.OffsetAlt:
		fmt.Printf("%s: altitude offset %+.2f m\n", label, p.AltOffset)
	case calib.LinearAlt:
		fmt.Printf("%s: alt' = %.6f*alt %+.2f m\n", label, p.AltSlope, p.AltOffset)
	case calib.QuadraticAlt:
		fmt.Printf("%s: alt' = %.3e*alt^2 + %.6f*alt %+.2f m\n", label, p.AltQuad, p.AltSlope, p.AltOffset)
	case calib.OffsetPress:
		fmt.Printf("%s: pressure offset %+.1f Pa\n", label, p.PressOffset)
	case calib.ScalePress:
		fmt.Printf("%s: pressure scale %.6f\n", label, p.PressScale)
	case calib.LinearPress:
		fmt.Printf("%s: p' = %.6f*p %+.1f Pa\n", label, p.PressSlope, p.PressOffset)
	}
}

func writeSeriesCSV(path string, t1, t2 *track.Track, res calib.Result) error {
	maps := track.BuildSecondMaps(t1, t2)
	shared := maps.SharedSeconds()

	rows := [][]string{{"sec", "gps1", "gps2", "baro1_raw", "baro1_cal", "baro2_raw", "baro2_cal"}}
	for _, sec := range shared {
		b1, b2 := maps.Baro1[sec], maps.Baro2[sec]
		rows = append(rows, []string{
			strconv.FormatInt(sec, 10),
			fmtAlt(maps.GPS1[sec]),
			fmtAlt(maps.GPS2[sec]),
			fmtAlt(b1),
			fmtAlt(res.Baro1.Eval(b1)),
			fmtAlt(b2),
			fmtAlt(res.Baro2.Eval(b2)),
		})
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return err
	}
	w.Flush()
	return w.Error()
}

func fmtAlt(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
