package util

import "strconv"

// MustParseUint 路径参数转无符号整数，非法输入返回 0，由后续查询报 NotFound
func MustParseUint(s string) uint {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0
	}
	return uint(v)
}
