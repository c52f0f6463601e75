package utils

import "errors"

var ErrDivisionByZero = errors.New("除数不能为 0")

// Modulo 返回 n 对 |base| 取模的非负结果，取值范围为 [0, |base|)
func Modulo(n, base int) (int, error) {
	if base == 0 {
		return 0, ErrDivisionByZero
	}

	// |r| < |base|，以下调整不会溢出
	r := n % base
	if r < 0 {
		if base < 0 {
			r -= base
		} else {
			r += base
		}
	}
	return r, nil
}
