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

package trait

// 哨兵值：表示「不限制」。
const (
	AnyNature  = -1
	AnyAbility = 2
	AnyHP      = -1

	// NoShinyCheck 為 IDxorSID 的略過值。
	// 正常的 IDxorSID 低 3 位已被遮掉，所以不可能等於 1。
	NoShinyCheck uint16 = 1
)

// NatureCount 性格總數。
const NatureCount = 25

// PID 由兩個輸出組成，先抽到的是低半部。
func PID(low, high uint16) uint32 {
	return uint32(high)<<16 | uint32(low)
}

// SplitPID 回傳 PID 的低、高半部。
func SplitPID(pid uint32) (uint16, uint16) {
	return uint16(pid), uint16(pid >> 16)
}

// Nature 回傳 PID 對應的性格編號 (0-24)。
func Nature(pid uint32) int {
	return int(pid % NatureCount)
}

// Ability 回傳 PID 對應的特性欄位 (0/1)。
func Ability(pid uint32) int {
	return int(pid & 1)
}

// PIDTest 檢查 PID 是否符合性格與特性條件。
func PIDTest(pid uint32, nature int, ability int) bool {
	if ability != AnyAbility && int(pid&1) != ability {
		return false
	}
	return nature == AnyNature || int(pid%NatureCount) == nature
}

// ShinyValue 以表 ID 與裏 ID 產生比較用的 XOR 值（低 3 位遮掉）。
func ShinyValue(tid, sid uint16) uint16 {
	return (tid ^ sid) &^ 7
}

// XORTest 異色判定。
//
// low ^ high ^ TID ^ SID < 8 即為異色；idXorSID 已遮掉低 3 位，
// 所以等價於 low ^ high ^ idXorSID 的 bit 3-15 全為 0。
func XORTest(low, high, idXorSID uint16) bool {
	if idXorSID == NoShinyCheck {
		return true
	}
	return (low^high^idXorSID)&^7 == 0
}

// IsShiny 對完整 PID 做異色判定，不接受略過值。
func IsShiny(pid uint32, idXorSID uint16) bool {
	low, high := SplitPID(pid)
	return (low^high^(idXorSID&^7))&^7 == 0
}
