// Package classfile parses a JVM class file, resolves methods by
// name+descriptor or by constant-pool index, and counts a method's
// parameters from its descriptor. It supports exactly the subset of the
// class file format the interpreter exercises — no verification, no field
// storage, no exception tables, no attributes beyond Code.
package classfile

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
)

const classMagic = 0xCAFEBABE

// Method is one entry of a class's method table, carrying just enough of
// its Code attribute for the interpreter: the raw instruction stream and
// the two capacities the interpreter sizes its Frame from.
type Method struct {
	Name       string
	Descriptor string

	MaxStack  int
	MaxLocals int
	Code      []byte
}

// NumParameters returns the number of parameters declared by the method's
// descriptor.
func (m *Method) NumParameters() int {
	return NumberOfParameters(m.Descriptor)
}

// Class is a parsed class file: its constant pool and its method table.
type Class struct {
	Pool    *Pool
	Methods []*Method
}

// FindMethod looks up a method by exact name and descriptor string.
func (c *Class) FindMethod(name, descriptor string) (*Method, bool) {
	for _, m := range c.Methods {
		if m.Name == name && m.Descriptor == descriptor {
			return m, true
		}
	}
	return nil, false
}

// FindMethodFromIndex resolves a constant-pool Methodref at cpIndex (as
// used by invokestatic) to the Method it names.
func (c *Class) FindMethodFromIndex(cpIndex uint16) (*Method, error) {
	name, descriptor, err := c.Pool.NameAndDescriptor(cpIndex)
	if err != nil {
		return nil, err
	}
	m, ok := c.FindMethod(name, descriptor)
	if !ok {
		return nil, fmt.Errorf("classfile: no method %s%s", name, descriptor)
	}
	return m, nil
}

// Parse reads a class file from r. It is deliberately tolerant of
// attributes and table entries it does not understand (fields, line
// number tables, stack map tables, ...): it reads their declared length
// and skips the bytes, even though this package only interprets the Code
// attribute. The constant pool is not skipped that way: an entry whose tag
// is not Utf8, Integer, Class, String, NameAndType, Methodref or Fieldref
// is an error.
func Parse(r io.Reader) (*Class, error) {
	br := bufio.NewReader(r)

	var magic uint32
	if err := binary.Read(br, binary.BigEndian, &magic); err != nil {
		return nil, fmt.Errorf("classfile: reading magic: %w", err)
	}
	if magic != classMagic {
		return nil, fmt.Errorf("classfile: bad magic %#x", magic)
	}

	var minor, major uint16
	if err := readAll(br, &minor, &major); err != nil {
		return nil, err
	}

	pool, err := readPool(br)
	if err != nil {
		return nil, err
	}

	var accessFlags, thisClass, superClass uint16
	if err := readAll(br, &accessFlags, &thisClass, &superClass); err != nil {
		return nil, err
	}

	if err := skipInterfaces(br); err != nil {
		return nil, err
	}
	if err := skipFields(br); err != nil {
		return nil, err
	}

	methods, err := readMethods(br, pool)
	if err != nil {
		return nil, err
	}

	// Trailing class-level attributes (e.g. SourceFile) are of no interest
	// to this interpreter subset and are skipped the same way field and
	// method attributes are.
	if err := skipAttributes(br); err != nil && err != io.EOF {
		return nil, err
	}

	return &Class{Pool: pool, Methods: methods}, nil
}

func readPool(r *bufio.Reader) (*Pool, error) {
	var count uint16
	if err := readAll(r, &count); err != nil {
		return nil, err
	}
	// count includes a phantom entry at index 0; real entries run 1..count-1.
	n := int(count) - 1
	pool := &Pool{entries: make([]Entry, 0, n)}

	for i := 0; i < n; i++ {
		var tag uint8
		if err := readAll(r, &tag); err != nil {
			return nil, err
		}
		switch tag {
		case tagUtf8:
			var length uint16
			if err := readAll(r, &length); err != nil {
				return nil, err
			}
			buf := make([]byte, length)
			if _, err := io.ReadFull(r, buf); err != nil {
				return nil, err
			}
			pool.entries = append(pool.entries, utf8Entry{value: string(buf)})
		case tagInteger:
			var v int32
			if err := readAll(r, &v); err != nil {
				return nil, err
			}
			pool.entries = append(pool.entries, integerEntry{value: v})
		case tagClass:
			var nameIndex uint16
			if err := readAll(r, &nameIndex); err != nil {
				return nil, err
			}
			pool.entries = append(pool.entries, classEntry{nameIndex: nameIndex})
		case tagString:
			var stringIndex uint16
			if err := readAll(r, &stringIndex); err != nil {
				return nil, err
			}
			pool.entries = append(pool.entries, stringEntry{stringIndex: stringIndex})
		case tagNameAndType:
			var nameIndex, descriptorIndex uint16
			if err := readAll(r, &nameIndex, &descriptorIndex); err != nil {
				return nil, err
			}
			pool.entries = append(pool.entries, nameAndTypeEntry{nameIndex: nameIndex, descriptorIndex: descriptorIndex})
		case tagMethodref, tagFieldref:
			var classIndex, natIndex uint16
			if err := readAll(r, &classIndex, &natIndex); err != nil {
				return nil, err
			}
			pool.entries = append(pool.entries, refEntry{classIndex: classIndex, nameAndTypeIndex: natIndex})
		default:
			return nil, fmt.Errorf("classfile: unsupported constant pool tag %d", tag)
		}
	}
	return pool, nil
}

func skipInterfaces(r *bufio.Reader) error {
	var count uint16
	if err := readAll(r, &count); err != nil {
		return err
	}
	_, err := io.CopyN(io.Discard, r, int64(count)*2)
	return err
}

func skipFields(r *bufio.Reader) error {
	var count uint16
	if err := readAll(r, &count); err != nil {
		return err
	}
	for i := uint16(0); i < count; i++ {
		var accessFlags, nameIndex, descriptorIndex uint16
		if err := readAll(r, &accessFlags, &nameIndex, &descriptorIndex); err != nil {
			return err
		}
		if err := skipAttributes(r); err != nil {
			return err
		}
	}
	return nil
}

func readMethods(r *bufio.Reader, pool *Pool) ([]*Method, error) {
	var count uint16
	if err := readAll(r, &count); err != nil {
		return nil, err
	}

	methods := make([]*Method, 0, count)
	for i := uint16(0); i < count; i++ {
		var accessFlags, nameIndex, descriptorIndex uint16
		if err := readAll(r, &accessFlags, &nameIndex, &descriptorIndex); err != nil {
			return nil, err
		}
		name, err := pool.Utf8(nameIndex)
		if err != nil {
			return nil, err
		}
		descriptor, err := pool.Utf8(descriptorIndex)
		if err != nil {
			return nil, err
		}

		method := &Method{Name: name, Descriptor: descriptor}

		var attrCount uint16
		if err := readAll(r, &attrCount); err != nil {
			return nil, err
		}
		for a := uint16(0); a < attrCount; a++ {
			attrNameIndex, length, body, err := readAttribute(r)
			if err != nil {
				return nil, err
			}
			attrName, err := pool.Utf8(attrNameIndex)
			if err != nil {
				return nil, err
			}
			if attrName == "Code" {
				if err := parseCodeAttribute(body, method); err != nil {
					return nil, err
				}
			}
			_ = length
		}

		methods = append(methods, method)
	}
	return methods, nil
}

func parseCodeAttribute(body []byte, m *Method) error {
	if len(body) < 8 {
		return fmt.Errorf("classfile: Code attribute too short")
	}
	m.MaxStack = int(binary.BigEndian.Uint16(body[0:2]))
	m.MaxLocals = int(binary.BigEndian.Uint16(body[2:4]))
	codeLength := binary.BigEndian.Uint32(body[4:8])
	if uint32(len(body)-8) < codeLength {
		return fmt.Errorf("classfile: Code attribute truncated")
	}
	m.Code = append([]byte(nil), body[8:8+codeLength]...)
	return nil
}

// readAttribute reads one generic attribute_info entry and returns its
// name-index, declared length, and raw payload bytes.
func readAttribute(r *bufio.Reader) (nameIndex uint16, length uint32, body []byte, err error) {
	if err = readAll(r, &nameIndex, &length); err != nil {
		return 0, 0, nil, err
	}
	body = make([]byte, length)
	if _, err = io.ReadFull(r, body); err != nil {
		return 0, 0, nil, err
	}
	return nameIndex, length, body, nil
}

func skipAttributes(r *bufio.Reader) error {
	var count uint16
	if err := readAll(r, &count); err != nil {
		return err
	}
	for i := uint16(0); i < count; i++ {
		if _, _, _, err := readAttribute(r); err != nil {
			return err
		}
	}
	return nil
}

// readAll binary.Reads each of dsts in order, big-endian, stopping at the
// first error.
func readAll(r io.Reader, dsts ...any) error {
	for _, d := range dsts {
		if err := binary.Read(r, binary.BigEndian, d); err != nil {
			return err
		}
	}
	return nil
}
