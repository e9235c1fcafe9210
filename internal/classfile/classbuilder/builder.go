// Package classbuilder is a small in-memory assembler for the class file
// format internal/classfile parses: it turns a convenient, programmatic
// description of a program into the exact binary layout the interpreter's
// class-file reader expects, so tests and CLI fixtures never need a real
// javac on hand.
package classbuilder

import (
	"encoding/binary"
)

// Builder accumulates constant pool entries and methods for a single class
// and renders them to the binary class file format on Bytes.
type Builder struct {
	utf8 map[string]uint16 // interned Utf8 entries, keyed by value
	pool []poolEntry
	methods []method
}

type poolEntry struct {
	tag   uint8
	bytes []byte
}

type method struct {
	nameIndex       uint16
	descriptorIndex uint16
	maxStack        int
	maxLocals       int
	code            []byte
}

// New returns an empty builder.
func New() *Builder {
	return &Builder{utf8: make(map[string]uint16)}
}

// constant pool tags, mirrored from internal/classfile (unexported there).
const (
	tagUtf8        = 1
	tagInteger     = 3
	tagNameAndType = 12
	tagMethodref   = 10
)

func (b *Builder) add(tag uint8, payload []byte) uint16 {
	b.pool = append(b.pool, poolEntry{tag: tag, bytes: payload})
	return uint16(len(b.pool)) // 1-based index, matching the class file format
}

// utf8Index interns a Utf8 constant, returning its existing index if the
// same string was already added.
func (b *Builder) utf8Index(s string) uint16 {
	if idx, ok := b.utf8[s]; ok {
		return idx
	}
	buf := make([]byte, 2+len(s))
	binary.BigEndian.PutUint16(buf, uint16(len(s)))
	copy(buf[2:], s)
	idx := b.add(tagUtf8, buf)
	b.utf8[s] = idx
	return idx
}

// IntegerConstant adds an Integer constant pool entry and returns its
// 1-based index, suitable as the operand of an ldc instruction.
func (b *Builder) IntegerConstant(v int32) uint16 {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(v))
	return b.add(tagInteger, buf)
}

// MethodRef adds a Methodref constant pool entry (via a NameAndType entry)
// for a method with the given name and descriptor, and returns its
// 1-based index, suitable as the operand of an invokestatic instruction.
// The referenced class itself is not modeled: this interpreter subset only
// ever resolves methods against the single class file it was given.
func (b *Builder) MethodRef(name, descriptor string) uint16 {
	nameIdx := b.utf8Index(name)
	descIdx := b.utf8Index(descriptor)

	natBuf := make([]byte, 4)
	binary.BigEndian.PutUint16(natBuf[0:2], nameIdx)
	binary.BigEndian.PutUint16(natBuf[2:4], descIdx)
	natIdx := b.add(tagNameAndType, natBuf)

	refBuf := make([]byte, 4)
	// classIndex is unused by this interpreter subset's resolution path;
	// 0 is reserved and never dereferenced as a Class entry.
	binary.BigEndian.PutUint16(refBuf[0:2], 0)
	binary.BigEndian.PutUint16(refBuf[2:4], natIdx)
	return b.add(tagMethodref, refBuf)
}

// AddMethod appends a static method with a Code attribute built from code.
func (b *Builder) AddMethod(name, descriptor string, maxStack, maxLocals int, code []byte) {
	b.methods = append(b.methods, method{
		nameIndex:       b.utf8Index(name),
		descriptorIndex: b.utf8Index(descriptor),
		maxStack:        maxStack,
		maxLocals:       maxLocals,
		code:            code,
	})
}

// Bytes renders the accumulated constant pool and methods into a complete
// class file, readable by internal/classfile.Parse.
func (b *Builder) Bytes() []byte {
	codeAttrName := b.utf8Index("Code")

	out := make([]byte, 0, 256)
	putU32 := func(v uint32) { out = binary.BigEndian.AppendUint32(out, v) }
	putU16 := func(v uint16) { out = binary.BigEndian.AppendUint16(out, v) }
	putU8 := func(v uint8) { out = append(out, v) }

	putU32(0xCAFEBABE)
	putU16(0) // minor version
	putU16(0) // major version

	putU16(uint16(len(b.pool) + 1)) // constant_pool_count
	for _, e := range b.pool {
		putU8(e.tag)
		out = append(out, e.bytes...)
	}

	putU16(0x0021) // access_flags: ACC_PUBLIC | ACC_SUPER
	putU16(0)      // this_class (unused by this interpreter subset)
	putU16(0)      // super_class
	putU16(0)      // interfaces_count
	putU16(0)      // fields_count

	putU16(uint16(len(b.methods))) // methods_count
	for _, m := range b.methods {
		putU16(0x0009) // access_flags: ACC_PUBLIC | ACC_STATIC
		putU16(m.nameIndex)
		putU16(m.descriptorIndex)
		putU16(1) // attributes_count: just Code

		putU16(codeAttrName)
		codeBody := make([]byte, 0, 8+len(m.code)+4)
		codeBody = binary.BigEndian.AppendUint16(codeBody, uint16(m.maxStack))
		codeBody = binary.BigEndian.AppendUint16(codeBody, uint16(m.maxLocals))
		codeBody = binary.BigEndian.AppendUint32(codeBody, uint32(len(m.code)))
		codeBody = append(codeBody, m.code...)
		codeBody = binary.BigEndian.AppendUint16(codeBody, 0) // exception_table_length
		codeBody = binary.BigEndian.AppendUint16(codeBody, 0) // attributes_count
		putU32(uint32(len(codeBody)))
		out = append(out, codeBody...)
	}

	putU16(0) // class-level attributes_count
	return out
}
