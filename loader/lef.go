// Package loader reads the LEF executable format and places its sections
// into an emulator's memory.
package loader

import (
	"bytes"
	"fmt"
	"os"

	"github.com/adeys/litemips/emu"
)

// headerSize is the on-disk size of the file header, in bytes. The load
// entry point stored in the header is file-relative, so this value is
// subtracted from it to recover the guest-relative IP.
const headerSize = 15

// sectionHeaderSize is the on-disk stride between consecutive section
// headers. The four fields below it (name, type, address, size) sum to
// 11 bytes; the remaining 4 are reserved padding, matching the natural
// width of the enum-typed field in the format this one was derived from.
const sectionHeaderSize = 15

var magic = [4]byte{0x10, 'L', 'E', 'F'}

// SectionType identifies what a section header's payload contains.
type SectionType uint8

const (
	SectionNull SectionType = iota
	SectionExec
	SectionStrtab
	SectionAlloc
)

type fileHeader struct {
	major, minor uint8
	entry        uint32
	shAddr       uint32
	shCount      uint8
}

type sectionHeader struct {
	name    uint16
	typ     SectionType
	address uint32
	size    uint32
}

// Program is a loaded executable ready to run.
type Program struct {
	// Entry is the guest-relative IP execution should begin at, suitable
	// for Emulator.SetEntry combined with ProgramBase.
	Entry uint32
}

// Load reads the LEF file at path and copies its sections into mem,
// returning the program's entry point.
func Load(path string, mem *emu.Memory) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open executable: %w", err)
	}

	hdr, err := readFileHeader(data)
	if err != nil {
		return nil, fmt.Errorf("read file header: %w", err)
	}

	if uint32(len(data)) < hdr.shAddr {
		return nil, fmt.Errorf("section table offset %d out of range", hdr.shAddr)
	}

	var progCursor, dataCursor uint32
	for i := 0; i < int(hdr.shCount); i++ {
		off := hdr.shAddr + uint32(i)*sectionHeaderSize
		sh, err := readSectionHeader(data, off)
		if err != nil {
			return nil, fmt.Errorf("read section header %d: %w", i, err)
		}

		if err := loadSection(data, sh, mem, &progCursor, &dataCursor); err != nil {
			return nil, fmt.Errorf("load section %d: %w", i, err)
		}
	}

	return &Program{Entry: hdr.entry - headerSize}, nil
}

func readFileHeader(data []byte) (fileHeader, error) {
	if len(data) < headerSize {
		return fileHeader{}, fmt.Errorf("file too short for header: %d bytes", len(data))
	}
	if !bytes.Equal(data[0:4], magic[:]) {
		return fileHeader{}, fmt.Errorf("bad magic: %v", data[0:4])
	}

	return fileHeader{
		major:   data[4],
		minor:   data[5],
		entry:   beUint32(data[6:10]),
		shAddr:  beUint32(data[10:14]),
		shCount: data[14],
	}, nil
}

func readSectionHeader(data []byte, off uint32) (sectionHeader, error) {
	if uint32(len(data)) < off+11 {
		return sectionHeader{}, fmt.Errorf("file too short for section header at offset %d", off)
	}

	return sectionHeader{
		name:    beUint16(data[off : off+2]),
		typ:     SectionType(data[off+2]),
		address: beUint32(data[off+3 : off+7]),
		size:    beUint32(data[off+7 : off+11]),
	}, nil
}

func loadSection(data []byte, sh sectionHeader, mem *emu.Memory, progCursor, dataCursor *uint32) error {
	switch sh.typ {
	case SectionNull:
		return nil
	case SectionExec:
		payload, err := sectionPayload(data, sh)
		if err != nil {
			return err
		}
		if len(payload)%4 != 0 {
			return fmt.Errorf("exec section size %d is not word-aligned", len(payload))
		}
		for i := 0; i < len(payload); i += 4 {
			mem.WriteWord(emu.ProgramBase+*progCursor+uint32(i), beUint32(payload[i:i+4]))
		}
		*progCursor += uint32(len(payload))
	case SectionAlloc:
		payload, err := sectionPayload(data, sh)
		if err != nil {
			return err
		}
		for i, b := range payload {
			mem.WriteByte(emu.DataBase+*dataCursor+uint32(i), b)
		}
		*dataCursor += uint32(len(payload))
	case SectionStrtab:
		payload, err := sectionPayload(data, sh)
		if err != nil {
			return err
		}
		if len(payload) < 2 {
			return fmt.Errorf("strtab section too small to strip delimiters: %d bytes", len(payload))
		}
		body := payload[1 : len(payload)-1]
		for i, b := range body {
			mem.WriteByte(emu.DataBase+*dataCursor+uint32(i), b)
		}
		*dataCursor += uint32(len(body))
	default:
		return fmt.Errorf("unknown section type %d", sh.typ)
	}
	return nil
}

func sectionPayload(data []byte, sh sectionHeader) ([]byte, error) {
	end := uint64(sh.address) + uint64(sh.size)
	if end > uint64(len(data)) {
		return nil, fmt.Errorf("section payload at offset %d, size %d exceeds file length %d", sh.address, sh.size, len(data))
	}
	return data[sh.address:end], nil
}

func beUint16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

func beUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
