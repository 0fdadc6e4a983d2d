package modfile

// Encode writes the module in the standard (31 instruments) MOD format.
//
// Legacy modules are converted to the standard format.
// If m.Signature is empty, it's derived from m.NumChannels.
// Missing patterns (referenced by the order table but absent from m.Patterns)
// are written as empty patterns.
func Encode(m *Module) []byte {
	numPatterns := len(m.Patterns)
	for _, index := range m.PatternOrder {
		if int(index)+1 > numPatterns {
			numPatterns = int(index) + 1
		}
	}

	size := headerSize + numPatterns*PatternSize(m.NumChannels)
	for i := range m.Instruments {
		size += m.Instruments[i].Length * 2
	}
	data := make([]byte, size)

	putCstring(data[:titleSize], m.Title)
	for i := range m.Instruments {
		inst := &m.Instruments[i]
		b := data[titleSize+i*instrumentSize:]
		putCstring(b[:instrumentNameSize], inst.Name)
		putWord(b[22:], inst.Length)
		b[24] = inst.Finetune & 0x0F
		b[25] = inst.Volume
		putWord(b[26:], inst.LoopStart)
		putWord(b[28:], inst.LoopLength)
	}

	data[songLengthOffset] = uint8(m.SongLength)
	data[songLengthOffset+1] = m.RestartPosition
	copy(data[songLengthOffset+2:], m.PatternOrder[:])

	sig := m.Signature
	if sig == "" {
		sig = makeSignature(m.NumChannels)
	}
	copy(data[signatureOffset:signatureOffset+signatureSize], sig)

	offset := headerSize
	patternSize := PatternSize(m.NumChannels)
	for i := 0; i < numPatterns; i++ {
		if i < len(m.Patterns) {
			copy(data[offset:offset+patternSize], m.Patterns[i].Data)
		}
		offset += patternSize
	}

	for i := range m.Instruments {
		inst := &m.Instruments[i]
		n := inst.Length * 2
		copy(data[offset:offset+n], inst.Data)
		offset += n
	}

	return data
}
