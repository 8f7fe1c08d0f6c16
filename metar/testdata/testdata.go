package testdata

import (
	"bufio"
	"compress/gzip"
	"embed"
	"testing"

	"github.com/stretchr/testify/require"
)

//go:embed *.gz
var data embed.FS

func newScanner(t *testing.T, path string) *bufio.Scanner {
	f, err := data.Open(path)
	require.NoError(t, err)

	r, err := gzip.NewReader(f)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, r.Close())
	})

	scanner := bufio.NewScanner(r)
	t.Cleanup(func() {
		require.NoError(t, scanner.Err())
	})

	return scanner
}

// METAR returns a scanner over a corpus of US METAR reports, one per line.
func METAR(t *testing.T) *bufio.Scanner {
	return newScanner(t, "metar.txt.gz")
}
