package sparam

import "math"

// Mixed-mode conversion for differential pairs wired [P1+, P2+, P3-, P4-]:
// the modal transform maps the single-ended waves onto the differential
// mode Diff1 = (P1+ - P3-)/√2 and Diff2 = (P2+ - P4-)/√2.

// modalRows are the single-ended ports entering each differential mode
// with positive and negative sign.
var modalRows = [2][2]int{
	{0, 2}, // Diff1: P1+ minus P3-
	{1, 3}, // Diff2: P2+ minus P4-
}

// Differential converts a four-port network to its 2x2 differential-mode
// form SDD = M·S·M⁺, where M = [[1,0,-1,0],[0,1,0,-1]]/√2 and M⁺ = Mᵀ/2
// is the closed-form pseudo-inverse for this M. Two-port networks are
// returned unchanged.
func (n *Network) Differential() *Network {
	if n.NumPorts == portsTwo {
		return n
	}

	invSqrt2 := 1 / math.Sqrt2

	s := make([][][]complex128, len(n.S))
	for k, m := range n.S {
		sdd := make([][]complex128, portsTwo)
		for r := 0; r < portsTwo; r++ {
			sdd[r] = make([]complex128, portsTwo)
			for q := 0; q < portsTwo; q++ {
				// (M·S·Mᵀ/2)[r][q] expands to a four-term signed sum
				// over the paired single-ended entries.
				pr, nr := modalRows[r][0], modalRows[r][1]
				pq, nq := modalRows[q][0], modalRows[q][1]

				num := m[pr][pq] - m[pr][nq] - m[nr][pq] + m[nr][nq]
				sdd[r][q] = num * complex(invSqrt2*invSqrt2, 0)
			}
		}
		s[k] = sdd
	}

	freqs := make([]float64, len(n.Freqs))
	copy(freqs, n.Freqs)

	return &Network{
		Freqs:    freqs,
		S:        s,
		NumPorts: portsTwo,
		Z0:       n.Z0,
		Name:     n.Name,
	}
}
