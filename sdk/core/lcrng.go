// Copyright 2025 Zintix Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package core

const (
	// Mult, Add 為遊戲內 LCRNG 的遞推係數。
	Mult uint32 = 0x41C64E6D
	Add  uint32 = 0x00006073

	// MultInv = Mult^-1 (mod 2^32)，AddInv = -Add*MultInv (mod 2^32)。
	// 兩者皆可由 Inverse32 推得，測試中會驗證。
	MultInv uint32 = 0xEEB9EB65
	AddInv  uint32 = 0x0A3561A1

	// SignBit 是狀態的最高位元。翻轉它只會翻轉之後每個輸出的 bit 15。
	SignBit uint32 = 0x80000000
)

// Next 回傳 state 前進一步後的狀態與該狀態的 16-bit 輸出。
func Next(state uint32) (uint32, uint16) {
	state = state*Mult + Add
	return state, uint16(state >> 16)
}

// Prev 回傳 state 後退一步後的狀態與該狀態的 16-bit 輸出。
func Prev(state uint32) (uint32, uint16) {
	state = state*MultInv + AddInv
	return state, uint16(state >> 16)
}

// Output 回傳某個狀態本身的輸出（高 16 位）。
func Output(state uint32) uint16 {
	return uint16(state >> 16)
}

// Inverse32 回傳奇數 a 在 mod 2^32 下的乘法反元素。
//
// 以 Newton 迭代求解：x = x*(2 - a*x)，每輪正確位數加倍，
// 起始值 x = a 對奇數 a 已有 3 位正確，四輪即達 48 位以上。
// a 為偶數時不存在反元素，回傳 0。
func Inverse32(a uint32) uint32 {
	if a&1 == 0 {
		return 0
	}
	x := a
	for range 4 {
		x *= 2 - a*x
	}
	return x
}
