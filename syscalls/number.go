package syscalls

import (
	"iter"
	"maps"
	"strconv"
	"strings"
)

// Number is a syscall service number, as loaded into $v0.
type Number int

//go:generate go tool stringer -linecomment -type=Number
const (
	SYS_PRINT_INT          = Number(1)  // print_int
	SYS_PRINT_STRING       = Number(4)  // print_string
	SYS_READ_INT           = Number(5)  // read_int
	SYS_READ_STRING        = Number(8)  // read_string
	SYS_SBRK               = Number(9)  // sbrk
	SYS_EXIT               = Number(10) // exit
	SYS_PRINT_CHAR         = Number(11) // print_char
	SYS_READ_CHAR          = Number(12) // read_char
	SYS_EXIT2              = Number(17) // exit2
	SYS_PRINT_INT_HEX      = Number(34) // print_int_hex
	SYS_PRINT_INT_BINARY   = Number(35) // print_int_binary
	SYS_PRINT_INT_UNSIGNED = Number(36) // print_int_unsigned
)

// Numbers lists every supported service.
var Numbers = []Number{
	SYS_PRINT_INT,
	SYS_PRINT_STRING,
	SYS_READ_INT,
	SYS_READ_STRING,
	SYS_SBRK,
	SYS_EXIT,
	SYS_PRINT_CHAR,
	SYS_READ_CHAR,
	SYS_EXIT2,
	SYS_PRINT_INT_HEX,
	SYS_PRINT_INT_BINARY,
	SYS_PRINT_INT_UNSIGNED,
}

// Defines returns the service numbers as assembler equates, named like
// SYS_PRINT_INT.
func Defines() iter.Seq2[string, string] {
	defines := map[string]string{}
	for _, number := range Numbers {
		defines[number.Define()] = strconv.Itoa(int(number))
	}
	return maps.All(defines)
}

// Define is the equate name of the service.
func (number Number) Define() string {
	return "SYS_" + strings.ToUpper(number.String())
}
