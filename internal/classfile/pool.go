package classfile

import "fmt"

// Constant pool entry tags, matching the JVM class file format (JVMS §4.4).
// Only these tags are recognized; a constant pool entry with any other tag
// (Long, Double, InterfaceMethodref, MethodHandle, ...) makes Parse fail.
const (
	tagUtf8        = 1
	tagInteger     = 3
	tagClass       = 7
	tagString      = 8
	tagFieldref    = 9
	tagMethodref   = 10
	tagNameAndType = 12
)

// Entry is one constant pool slot. Concrete kinds are the unexported
// struct types below; callers type-switch or use the Pool accessors.
type Entry interface {
	isEntry()
}

type utf8Entry struct{ value string }

func (utf8Entry) isEntry() {}

type integerEntry struct{ value int32 }

func (integerEntry) isEntry() {}

type classEntry struct{ nameIndex uint16 }

func (classEntry) isEntry() {}

type stringEntry struct{ stringIndex uint16 }

func (stringEntry) isEntry() {}

type nameAndTypeEntry struct {
	nameIndex       uint16
	descriptorIndex uint16
}

func (nameAndTypeEntry) isEntry() {}

type refEntry struct {
	classIndex       uint16
	nameAndTypeIndex uint16
}

func (refEntry) isEntry() {}

// Pool is the constant pool of a single class file. Entries are stored
// 0-indexed internally but addressed with the class file's 1-based index:
// Pool.entry(i) reads entries[i-1], the same translation ldc's operand and
// invokestatic's operand both need applied before indexing in.
type Pool struct {
	entries []Entry
}

func (p *Pool) entry(index uint16) (Entry, error) {
	i := int(index) - 1
	if i < 0 || i >= len(p.entries) {
		return nil, fmt.Errorf("classfile: constant pool index %d out of range", index)
	}
	return p.entries[i], nil
}

// Integer returns the int32 payload of an Integer constant at index.
func (p *Pool) Integer(index uint16) (int32, error) {
	e, err := p.entry(index)
	if err != nil {
		return 0, err
	}
	ie, ok := e.(integerEntry)
	if !ok {
		return 0, fmt.Errorf("classfile: constant pool index %d is not an Integer entry", index)
	}
	return ie.value, nil
}

// Utf8 returns the string payload of a Utf8 constant at index.
func (p *Pool) Utf8(index uint16) (string, error) {
	e, err := p.entry(index)
	if err != nil {
		return "", err
	}
	ue, ok := e.(utf8Entry)
	if !ok {
		return "", fmt.Errorf("classfile: constant pool index %d is not a Utf8 entry", index)
	}
	return ue.value, nil
}

// NameAndDescriptor resolves a Methodref (or Fieldref) entry at index to
// the method/field name and descriptor strings its NameAndType points at.
// The referenced class itself is not resolved: this interpreter subset
// only ever executes methods of the single class it was given.
func (p *Pool) NameAndDescriptor(index uint16) (name, descriptor string, err error) {
	e, err := p.entry(index)
	if err != nil {
		return "", "", err
	}
	re, ok := e.(refEntry)
	if !ok {
		return "", "", fmt.Errorf("classfile: constant pool index %d is not a Methodref/Fieldref entry", index)
	}

	nt, err := p.entry(re.nameAndTypeIndex)
	if err != nil {
		return "", "", err
	}
	nte, ok := nt.(nameAndTypeEntry)
	if !ok {
		return "", "", fmt.Errorf("classfile: constant pool index %d is not a NameAndType entry", re.nameAndTypeIndex)
	}

	name, err = p.Utf8(nte.nameIndex)
	if err != nil {
		return "", "", err
	}
	descriptor, err = p.Utf8(nte.descriptorIndex)
	if err != nil {
		return "", "", err
	}
	return name, descriptor, nil
}
