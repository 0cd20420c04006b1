// Utilities for reading line-oriented batch files.
package shared

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
)

// utf8BOM is stripped from the first line; spreadsheet exports commonly prepend it.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ReadLinesFile opens the file at path and returns its lines. The file is closed before returning.
//
// Any open or read failure is reported as a single error wrapping [ErrUnreadableSource].
func ReadLinesFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableSource, path, err)
	}
	defer f.Close()

	lines, err := ReadLines(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableSource, path, err)
	}
	return lines, nil
}

// ReadLines reads every line from r, dropping line terminators ("\n" or "\r\n") and a leading UTF-8 BOM.
func ReadLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	first := true
	for scanner.Scan() {
		line := scanner.Bytes()
		if first {
			line = bytes.TrimPrefix(line, utf8BOM)
			first = false
		}
		lines = append(lines, strings.TrimRight(string(line), "\r"))
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read lines: %w", err)
	}

	return lines, nil
}
