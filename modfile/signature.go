package modfile

type signatureInfo struct {
	pattern     string
	numChannels int
}

// '$' is a decimal digit wildcard.
// Wildcard digits form a channel count.
var signatureTable = []signatureInfo{
	{"M!K!", 4},
	{"M.K.", 4},
	{"M&K!", 4},
	{"PATT", 4},
	{"NSMS", 4},
	{"LARD", 4},
	{"FEST", 4},
	{"FIST", 4},
	{"N.T.", 4},
	{"OKTA", 8},
	{"OCTA", 8},
	{"$CHN", -1},
	{"$$CH", -1},
	{"$$CN", -1},
	{"$$$C", -1},
	{"FLT$", -1},
	{"EXO$", -1},
	{"CD$1", -1},
	{"TDZ$", -1},
	{"FA0$", -1},
}

// lookupSignature returns a number of channels for the given 4-byte signature.
// If signature is unknown, ok=false is returned.
//
// For the wildcard signatures, the returned number of channels can be 0
// (like "00CH") or exceed MaxChannels.
func lookupSignature(sig []byte) (numChannels int, ok bool) {
	for _, info := range signatureTable {
		n, matched := matchSignature(info.pattern, sig)
		if !matched {
			continue
		}
		if info.numChannels > 0 {
			return info.numChannels, true
		}
		return n, true
	}
	return 0, false
}

func matchSignature(pattern string, sig []byte) (int, bool) {
	if len(sig) != len(pattern) {
		return 0, false
	}
	numChannels := 0
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '$' {
			if pattern[i] != sig[i] {
				return 0, false
			}
			continue
		}
		if sig[i] < '0' || sig[i] > '9' {
			return 0, false
		}
		numChannels = numChannels*10 + int(sig[i]-'0')
	}
	return numChannels, true
}

// makeSignature returns a signature that describes the given number of channels.
func makeSignature(numChannels int) string {
	switch {
	case numChannels == 4:
		return "M.K."
	case numChannels < 10:
		return string([]byte{'0' + byte(numChannels), 'C', 'H', 'N'})
	default:
		return string([]byte{'0' + byte(numChannels/10), '0' + byte(numChannels%10), 'C', 'H'})
	}
}
