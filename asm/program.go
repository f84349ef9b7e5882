package asm

import (
	"iter"
	"slices"

	"github.com/ezrec/umips/mem"
)

// Word is an encoded instruction.
type Word struct {
	Address uint32
	Value   uint32
	File    string
	Line    int
	Source  string // Source line the instruction came from.
}

// Chunk is a run of initialized data bytes.
type Chunk struct {
	Address uint32
	Bytes   []byte
}

// Program is an assembled image. It is not modified after Assemble
// returns it.
type Program struct {
	Layout     *mem.Layout
	Text       []Word  // Instructions, user and kernel, by address.
	Data       []Chunk // Initialized data, user and kernel, by address.
	Entry      uint32  // Initial PC.
	TextEnd    uint32  // Address just past the last user text instruction.
	Symbols    []Symbol
	Statements []Statement
	Warnings   []*Error
}

// DataBytes iterates over every initialized data byte, by address.
func (prog *Program) DataBytes() iter.Seq2[uint32, byte] {
	return func(yield func(addr uint32, b byte) bool) {
		for _, chunk := range prog.Data {
			for n, b := range chunk.Bytes {
				if !yield(chunk.Address+uint32(n), b) {
					return
				}
			}
		}
	}
}

// WordAt finds the instruction at addr.
func (prog *Program) WordAt(addr uint32) (word Word, ok bool) {
	n, ok := slices.BinarySearchFunc(prog.Text, addr, func(w Word, addr uint32) int {
		switch {
		case w.Address < addr:
			return -1
		case w.Address > addr:
			return 1
		}
		return 0
	})
	if ok {
		word = prog.Text[n]
	}
	return
}

// Symbol finds a symbol by name, preferring a global symbol.
func (prog *Program) Symbol(name string) (sym Symbol, ok bool) {
	for _, sym = range prog.Symbols {
		if sym.Name == name && sym.Global {
			return sym, true
		}
	}
	for _, sym = range prog.Symbols {
		if sym.Name == name {
			return sym, true
		}
	}
	return Symbol{}, false
}

// Load writes the image into memory, bypassing segment permissions.
func (prog *Program) Load(memory *mem.Memory) (err error) {
	var buf [4]byte
	for _, word := range prog.Text {
		mem.ByteOrder.PutUint32(buf[:], word.Value)
		err = memory.Poke(word.Address, buf[:])
		if err != nil {
			return
		}
	}

	for _, chunk := range prog.Data {
		err = memory.Poke(chunk.Address, chunk.Bytes)
		if err != nil {
			return
		}
	}

	return
}
