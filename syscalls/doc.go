// Package syscalls emulates the fixed table of operating system services
// reached through the MIPS syscall instruction.
//
// The service number is taken from $v0, arguments from $a0 and $a1, and
// results are returned in $v0. Console services use an injected io.Console.
package syscalls
