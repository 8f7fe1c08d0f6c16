package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

var (
	errNoStationCode      = errors.New("please enter an airport code")
	errStationCodeLength  = errors.New("airport code must be 4 characters (e.g., KTIG)")
	errNoPipedObservation = errors.New("no METAR found on stdin")
)

// normalizeStationCode upper-cases and validates an airport code entered by
// a user or posted to the server
func normalizeStationCode(input string) (string, error) {
	stationCode := strings.ToUpper(strings.TrimSpace(input))
	if stationCode == "" {
		return "", errNoStationCode
	}
	if len(stationCode) != 4 {
		return "", errStationCodeLength
	}
	return stationCode, nil
}

// stdinIsPiped reports whether stdin is a pipe or file rather than a terminal
func stdinIsPiped() bool {
	info, err := os.Stdin.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice == 0
}

// readObservations returns the non-empty lines of r, one raw METAR each
func readObservations(r io.Reader) ([]string, error) {
	var lines []string

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}
	if len(lines) == 0 {
		return nil, errNoPipedObservation
	}
	return lines, nil
}

// getStationCodeFromArgs gets station code from command-line args
func getStationCodeFromArgs(args []string) (string, error) {
	if len(args) < 1 {
		return "", errNoStationCode
	}
	return normalizeStationCode(args[0])
}

// promptForStationCode prompts the user for a station code
func promptForStationCode(in io.Reader, out io.Writer) (string, error) {
	reader := bufio.NewReader(in)
	fmt.Fprint(out, "Enter ICAO airport code (e.g., KJFK, EGLL): ")
	input, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		return "", fmt.Errorf("error reading input: %w", err)
	}
	return normalizeStationCode(input)
}
