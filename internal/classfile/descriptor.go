package classfile

// NumberOfParameters counts the parameters encoded in a method descriptor
// such as "(II[I)I": each primitive type character counts as one parameter,
// an array prefix run of one or more '[' followed by its element type
// counts as one parameter, and an object type "L...;" counts as one
// parameter. The return type (after the closing ')') is ignored.
func NumberOfParameters(descriptor string) int {
	count := 0
	i := 1 // skip the leading '('
	for i < len(descriptor) && descriptor[i] != ')' {
		switch descriptor[i] {
		case '[':
			// Skip all leading array-dimension markers for this parameter.
			for i < len(descriptor) && descriptor[i] == '[' {
				i++
			}
			if i < len(descriptor) && descriptor[i] == 'L' {
				i = skipObjectType(descriptor, i)
			} else {
				i++
			}
		case 'L':
			i = skipObjectType(descriptor, i)
		default:
			// B C D F I J S Z — single-character primitive types.
			i++
		}
		count++
	}
	return count
}

// skipObjectType advances past an "L<binary class name>;" run starting at
// the 'L' and returns the index just past the terminating ';'.
func skipObjectType(descriptor string, i int) int {
	for i < len(descriptor) && descriptor[i] != ';' {
		i++
	}
	return i + 1
}
