package mod

import (
	"unsafe"
)

func moduleSize(m *module) uint {
	memoryUsage := int(unsafe.Sizeof(*m))
	for i := range m.instruments {
		memoryUsage += len(m.instruments[i].sample.data)
	}
	for _, p := range m.patterns {
		memoryUsage += int(unsafe.Sizeof(p))
		memoryUsage += len(p)
	}
	return uint(memoryUsage)
}
