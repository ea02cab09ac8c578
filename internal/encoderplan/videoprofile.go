package encoderplan

// fitWithinPreservingAspect computes target (cw, ch) by scaling the
// source's SAR-corrected dimensions to fit within (wantedW, wantedH) while
// preserving aspect ratio, per spec.md §4.6's "Resolution & aspect" bullet.
func fitWithinPreservingAspect(iW, iH, sarNum, sarDen, wantedW, wantedH int) (cw, ch int) {
	if sarNum <= 0 {
		sarNum = 1
	}
	if sarDen <= 0 {
		sarDen = 1
	}
	p := iW * sarNum
	q := iH * sarDen
	g := gcd(p, q)
	if g > 0 {
		p /= g
		q /= g
	}
	if p == 0 || q == 0 {
		return wantedW, wantedH
	}
	// Fit p:q into wantedW x wantedH.
	cw = wantedW
	ch = (wantedW * q) / p
	if ch > wantedH {
		ch = wantedH
		cw = (wantedH * p) / q
	}
	return cw, ch
}

func gcd(a, b int) int {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func evenUp(n int) int {
	if n%2 != 0 {
		return n + 1
	}
	return n
}
