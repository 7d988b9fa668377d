// Copyright (c) 2023 Yawning Angel
//
// SPDX-License-Identifier: BSD-3-Clause

package bytecode

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

var errReverted = errors.New("evm: execution reverted")

// runCreationCode executes EVM creation code, and returns the code that
// would be deployed.  Only the opcodes used by creation prologues are
// supported, and stack words are truncated to 64 bits.
func runCreationCode(code []byte, callValue uint64) ([]byte, error) {
	var (
		stack  []uint64
		memory []byte
	)

	pop := func() uint64 {
		v := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return v
	}
	expand := func(off, size uint64) {
		if end := off + size; end > uint64(len(memory)) {
			memory = append(memory, make([]byte, end-uint64(len(memory)))...)
		}
	}
	need := func(pc, n int) error {
		if len(stack) < n {
			return errors.Errorf("evm: stack underflow at pc %#x", pc)
		}
		return nil
	}

	for pc := 0; pc < len(code); {
		op := code[pc]

		var arity int
		switch op {
		case 0x52, 0x57, 0xf3, 0xfd: // MSTORE, JUMPI, RETURN, REVERT
			arity = 2
		case 0x39: // CODECOPY
			arity = 3
		case 0x80, 0x15, 0x50: // DUP1, ISZERO, POP
			arity = 1
		}
		if err := need(pc, arity); err != nil {
			return nil, err
		}

		switch {
		case op == 0x00: // STOP
			return []byte{}, nil
		case op >= 0x60 && op <= 0x7f: // PUSHn
			n := int(op-0x60) + 1
			if pc+1+n > len(code) {
				return nil, errors.Errorf("evm: truncated PUSH%d at pc %#x", n, pc)
			}
			var buf [8]byte
			imm := code[pc+1 : pc+1+n]
			if n > 8 {
				imm = imm[n-8:]
			}
			copy(buf[8-len(imm):], imm)
			stack = append(stack, binary.BigEndian.Uint64(buf[:]))
			pc += 1 + n
			continue
		case op == 0x52: // MSTORE
			off, v := pop(), pop()
			expand(off, 32)
			var word [32]byte
			binary.BigEndian.PutUint64(word[24:], v)
			copy(memory[off:], word[:])
		case op == 0x34: // CALLVALUE
			stack = append(stack, callValue)
		case op == 0x80: // DUP1
			stack = append(stack, stack[len(stack)-1])
		case op == 0x15: // ISZERO
			v := pop()
			if v == 0 {
				stack = append(stack, 1)
			} else {
				stack = append(stack, 0)
			}
		case op == 0x57: // JUMPI
			dst, cond := pop(), pop()
			if cond != 0 {
				if dst >= uint64(len(code)) || code[dst] != 0x5b {
					return nil, errors.Errorf("evm: invalid jump destination %#x", dst)
				}
				pc = int(dst)
				continue
			}
		case op == 0x5b: // JUMPDEST
		case op == 0x50: // POP
			_ = pop()
		case op == 0x39: // CODECOPY
			dst, off, size := pop(), pop(), pop()
			expand(dst, size)
			for i := uint64(0); i < size; i++ {
				var b byte
				if off+i < uint64(len(code)) {
					b = code[off+i]
				}
				memory[dst+i] = b
			}
		case op == 0xf3: // RETURN
			off, size := pop(), pop()
			expand(off, size)
			return append([]byte{}, memory[off:off+size]...), nil
		case op == 0xfd: // REVERT
			return nil, errReverted
		default:
			return nil, errors.Errorf("evm: unsupported opcode %#02x at pc %#x", op, pc)
		}
		pc++
	}

	return []byte{}, nil
}
