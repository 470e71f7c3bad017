package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ReadTape reads the tape notation from the first line of r.
// An empty input yields an empty (all blank) tape.
func ReadTape(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read tape: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
