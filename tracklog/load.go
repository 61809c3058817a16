package tracklog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"barocal/track"
)

// Load reads a flight log from disk, picking the parser from the file
// extension, falling back to sniffing the first line.
func Load(path string) (*track.Track, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f, filepath.Base(path))
}

// Parse reads a flight log from r; name selects the format by extension and
// labels the resulting track.
func Parse(r io.Reader, name string) (*track.Track, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".igc":
		return ParseIGC(r, name)
	case ".nmea", ".nma":
		return ParseNMEA(r, name)
	}
	// Unknown extension: sniff the first line. NMEA logs start with '$',
	// IGC files with an A record.
	br := bufio.NewReader(r)
	head, err := br.Peek(1)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if head[0] == '$' {
		return ParseNMEA(br, name)
	}
	if head[0] == 'A' {
		return ParseIGC(br, name)
	}
	return nil, fmt.Errorf("%s: unrecognised flight log format", name)
}
