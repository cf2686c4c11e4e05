package domain

// Zero overwrites b with zeros. Call it on derived keys and decoded vault keys once
// they are no longer needed.
func Zero(b []byte) {
	clear(b)
}
