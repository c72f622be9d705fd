package util

// IDMap interns strings (street names, lane strings, tag values) into dense ids.
// id 0 is always the empty string.
type IDMap struct {
	strToID map[string]int
	idToStr []string
}

func NewIdMap() IDMap {
	m := IDMap{
		strToID: make(map[string]int),
		idToStr: make([]string, 0, 64),
	}
	m.GetID("")
	return m
}

func NewIdMapFromStrings(strs []string) IDMap {
	m := IDMap{
		strToID: make(map[string]int, len(strs)),
		idToStr: make([]string, 0, len(strs)),
	}
	for _, s := range strs {
		m.GetID(s)
	}
	if len(strs) == 0 {
		m.GetID("")
	}
	return m
}

// GetID returns the id of s, assigning the next free id on first use.
func (m *IDMap) GetID(s string) int {
	if id, ok := m.strToID[s]; ok {
		return id
	}
	id := len(m.idToStr)
	m.strToID[s] = id
	m.idToStr = append(m.idToStr, s)
	return id
}

func (m *IDMap) GetStr(id int) string {
	if id < 0 || id >= len(m.idToStr) {
		return ""
	}
	return m.idToStr[id]
}

func (m *IDMap) Len() int {
	return len(m.idToStr)
}

func (m *IDMap) Strings() []string {
	return m.idToStr
}
