// Package storage provides the byte-addressable medium that persisted
// configuration lives on.
//
// A Medium follows the EEPROM access pattern: Begin with the size that will
// be touched, read or write bytes at offsets inside that range, then End to
// flush and release. Emulated implements Medium over a Backend that holds a
// whole image (RAM, a flat file or a Badger database), the way flash-backed
// EEPROM emulation works on microcontrollers.
//
//	m := storage.NewEmulated(storage.NewFileBackend("/var/lib/thing/eeprom.bin"))
//	if err := m.Begin(128); err != nil {
//	    return err
//	}
//	defer m.End()
package storage
