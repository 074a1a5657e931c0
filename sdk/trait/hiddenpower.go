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

// 覺醒力量：六項個體值的最低位組出屬性，次低位組出威力。
// 權重依序為 HP(1) Atk(2) Def(4) Spe(8) SpA(16) SpD(32)。
const (
	HPTypeCount = 16
	HPMinPower  = 30
	HPMaxPower  = 70
)

// 以 iv1 的 3 個位元（HP/Atk/Def）為索引的預算表，供預檢使用。
var (
	hpTypeReach [8]uint16 // bit t 為 1 表示屬性 t 仍可能出現
	hpPowerMax  [8]int    // 其餘三位全為 1 時的最大威力
)

func init() {
	for low := range 8 {
		for k := range 8 {
			hpTypeReach[low] |= 1 << hpType(low|k<<3)
		}
		hpPowerMax[low] = hpPower(low | 7<<3)
	}
}

func hpType(bits int) int  { return bits * 15 / 63 }
func hpPower(bits int) int { return bits*40/63 + HPMinPower }

// lowBits 取三個欄位的最低位，依欄位順序排成 3 位元。
func lowBits(out uint16) int {
	return int(out&1 | (out>>4)&2 | (out>>8)&4)
}

// secondBits 取三個欄位的次低位。
func secondBits(out uint16) int {
	return int((out>>1)&1 | (out>>5)&2 | (out>>9)&4)
}

// HPPretest 只看 iv1（HP/Atk/Def）判斷想要的覺醒力量是否仍有可能。
// 不會誤殺：HPTest 通過者 HPPretest 必定通過。
func HPPretest(iv1 uint16, hpt, hpp int) bool {
	if hpp != AnyHP && hpPowerMax[secondBits(iv1)] < hpp {
		return false
	}
	if hpt != AnyHP {
		if hpt < 0 || hpt >= HPTypeCount {
			return false
		}
		return hpTypeReach[lowBits(iv1)]&(1<<hpt) != 0
	}
	return true
}

// HPTest 以兩個輸出算出覺醒力量並比對屬性與最低威力。
func HPTest(iv1, iv2 uint16, hpt, hpp int) bool {
	if hpt == AnyHP && hpp == AnyHP {
		return true
	}
	t, p := hiddenPowerOf(iv1, iv2)
	if hpt != AnyHP && t != hpt {
		return false
	}
	return hpp == AnyHP || p >= hpp
}

func hiddenPowerOf(iv1, iv2 uint16) (int, int) {
	// iv2 的欄位順序是 Spe/SpA/SpD，正好對應權重 8/16/32
	t := hpType(lowBits(iv1) | lowBits(iv2)<<3)
	p := hpPower(secondBits(iv1) | secondBits(iv2)<<3)
	return t, p
}

// HiddenPower 回傳一組個體值的覺醒力量屬性與威力。
func HiddenPower(v IVs) (int, int) {
	iv1, iv2 := EncodeIVs(v)
	return hiddenPowerOf(iv1, iv2)
}
