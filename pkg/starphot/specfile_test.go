package starphot

import(
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestReadSpecFile(t *testing.T) {
	path := writeFile(t, "star.txt", `# wavelength(micron) flux(Jy)
0.5  2.0
1.0  1.5

2.0  1.0
`)
	sed, err := ReadSpecFile(path)
	require.NoError(t, err)
	require.Len(t, sed.WaveA, 3)
	require.Equal(t, 0.5e4, sed.WaveA[0]) // stored in Angstrom
	require.Equal(t, 1.5, sed.FluxJy[1])
}

func TestReadSpecFileBadInput(t *testing.T) {
	cases := map[string]string{
		"three_cols.txt":  "0.5 2.0 99\n",
		"non_numeric.txt": "0.5 two\n",
		"empty.txt":       "# nothing here\n",
	}
	for name, body := range cases {
		path := writeFile(t, name, body)
		_, err := ReadSpecFile(path)
		require.True(t, errors.Is(err, ErrBadSpecFile), "%s: want ErrBadSpecFile, got %v", name, err)
	}

	_, err := ReadSpecFile("/no/such/star.txt")
	require.True(t, errors.Is(err, ErrBadSpecFile))
}

func TestReadBandpassFile(t *testing.T) {
	path := writeFile(t, "F356W.txt", `# micron throughput
3.1 0.0
3.3 0.4
3.8 0.45
4.0 0.0
`)
	bp, err := ReadBandpassFile(path)
	require.NoError(t, err)
	require.Equal(t, "F356W", bp.Name)
	require.Len(t, bp.WaveA, 4)
	require.InDelta(t, 3.3e4, bp.WaveA[1], 1e-9) // micron converted to Angstrom
	require.Equal(t, 0.45, bp.Throughput[2])

	_, err = ReadBandpassFile(writeFile(t, "bad.txt", "only_one_column\n"))
	require.Error(t, err)
}
