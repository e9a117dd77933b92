package book

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Book 图书目录中的一条记录，book_id 由调用方提供。
type Book struct {
	BookID string `json:"book_id"`
	Title  string `json:"title"`
	Author string `json:"author"`
	Genre  string `json:"genre"`
	Year   Year   `json:"year"`
	Copies int    `json:"copies"`
}

// Year accepts either a JSON number or a numeric string and always encodes as a number.
type Year int

// UnmarshalJSON 兼容 2020 与 "2020" 两种写法
func (y *Year) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
	}

	if val, err := strconv.Atoi(raw); err == nil {
		*y = Year(val)
		return nil
	}

	// 2020.0 这类整数值浮点也接受
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return fmt.Errorf("invalid year %s: must be an integer", data)
	}
	*y = Year(int(f))
	return nil
}
