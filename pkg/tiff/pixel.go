package tiff

// SamplesPerPixel is fixed at RGB
const SamplesPerPixel = 3

// pixelBase returns the first byte of pixel index in the strip at stripOffset
func (d *Document) pixelBase(index, stripOffset uint64) (int, error) {
	bpp := uint64(d.BytesPerPixel())
	base := stripOffset + index*bpp
	if bpp == 0 || base+bpp > uint64(len(d.Data)) {
		return 0, &RangeError{Offset: int(base), Length: int(bpp), Size: len(d.Data)}
	}
	return int(base), nil
}

// Pixel reads the RGB triplet of pixel index counted from stripOffset
func (d *Document) Pixel(index, stripOffset uint64) ([3]int32, error) {
	var rgb [3]int32
	base, err := d.pixelBase(index, stripOffset)
	if err != nil {
		return rgb, err
	}
	n := d.BytesPerSample()
	for c := range rgb {
		v, err := ReadInt(d.Data, base+c*n, n, d.LittleEndian)
		if err != nil {
			return rgb, err
		}
		// at most 65535, always fits
		rgb[c] = int32(v)
	}
	return rgb, nil
}

// SetPixel overwrites the samples of pixel index in place
func (d *Document) SetPixel(rgb [3]int32, index, stripOffset uint64) error {
	base, err := d.pixelBase(index, stripOffset)
	if err != nil {
		return err
	}
	n := d.BytesPerSample()
	for c, v := range rgb {
		at := base + c*n
		PutInt(d.Data[at:at+n], uint32(v), d.LittleEndian)
	}
	return nil
}
