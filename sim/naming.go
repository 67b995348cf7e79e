package sim

import (
	"fmt"
	"strconv"
	"strings"
)

// A Name is a hierarchical name such as "Medium.Station[3]". Tokens are
// separated by dots and may carry bracketed indices.
type Name struct {
	Tokens []NameToken
}

// NameToken is one dot-separated element of a Name.
type NameToken struct {
	ElemName string
	Index    []int
}

// ParseName parses a name string. It panics on malformed names.
func ParseName(sname string) Name {
	parts := strings.Split(sname, ".")
	name := Name{Tokens: make([]NameToken, len(parts))}

	for i, part := range parts {
		name.Tokens[i] = parseNameToken(part)
	}

	return name
}

func parseNameToken(token string) NameToken {
	open := strings.Count(token, "[")
	if open != strings.Count(token, "]") {
		panic("Name bracket must match")
	}

	pieces := strings.Split(token, "[")
	t := NameToken{ElemName: pieces[0], Index: make([]int, 0, len(pieces)-1)}

	for _, p := range pieces[1:] {
		if !strings.HasSuffix(p, "]") {
			panic("Name bracket must match")
		}

		index, err := strconv.Atoi(strings.TrimSuffix(p, "]"))
		if err != nil {
			panic("Name index must be integer")
		}

		t.Index = append(t.Index, index)
	}

	return t
}

// NameMustBeValid panics if the name is not a dot-separated list of
// capitalized CamelCase elements with optional integer indices.
func NameMustBeValid(name string) {
	if name == "" {
		panic("Name must not be empty")
	}

	for _, token := range ParseName(name).Tokens {
		if token.ElemName == "" {
			panic("Name element must not be empty")
		}

		if strings.ContainsAny(token.ElemName, "_\"'-") {
			panic(fmt.Sprintf("Name element %q contains invalid characters",
				token.ElemName))
		}

		if token.ElemName[0] < 'A' || token.ElemName[0] > 'Z' {
			panic("Name element must start with a capital letter")
		}
	}
}

// BuildName builds a name from a parent name and an element name.
func BuildName(parentName, elementName string) string {
	if parentName == "" {
		return elementName
	}

	return parentName + "." + elementName
}

// BuildNameWithIndex builds a name from a parent name, an element name and an
// index, e.g. "Medium.Station[2]".
func BuildNameWithIndex(parentName, elementName string, index int) string {
	return BuildName(parentName, elementName+"["+strconv.Itoa(index)+"]")
}
