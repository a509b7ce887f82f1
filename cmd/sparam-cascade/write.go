package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/rfkit/sparam"
)

// writeTouchstone serializes a network as Touchstone text in Hz/RI form,
// mirroring the pair order the parser expects: S11, S21, S12, S22 for a
// two-port, column-major over (row, column) for a four-port.
func writeTouchstone(path string, nw *sparam.Network) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprintf(w, "! %s\n", nw.Name)
	fmt.Fprintf(w, "# HZ S RI R %g\n", nw.Z0)

	for k, freq := range nw.Freqs {
		fmt.Fprintf(w, "%.10g", freq)

		m := nw.S[k]
		if nw.NumPorts == 2 {
			writePair(w, m[0][0])
			writePair(w, m[1][0])
			writePair(w, m[0][1])
			writePair(w, m[1][1])
		} else {
			for j := 0; j < nw.NumPorts; j++ {
				for i := 0; i < nw.NumPorts; i++ {
					writePair(w, m[i][j])
				}
			}
		}
		fmt.Fprintln(w)
	}

	if err := w.Flush(); err != nil {
		return err
	}
	return f.Close()
}

func writePair(w *bufio.Writer, v complex128) {
	fmt.Fprintf(w, " %.12g %.12g", real(v), imag(v))
}
