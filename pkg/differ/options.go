package differ

import "github.com/spf13/afero"

// Option is a functional option for configuring a Differ.
type Option func(*differ)

// WithDiffOutput saves both normalized forms of every compared dashboard to
// dir on fs, overwriting the previous pair. Used to inspect why a dashboard
// keeps being reported as changed.
func WithDiffOutput(fs afero.Fs, dir string) Option {
	return func(d *differ) {
		if fs == nil {
			fs = afero.NewOsFs()
		}
		if dir == "" {
			dir = "."
		}
		d.fs = fs
		d.dumpDir = dir
		d.dump = true
	}
}
