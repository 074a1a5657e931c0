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

import "strings"

var natureNames = [NatureCount]string{
	"Hardy", "Lonely", "Brave", "Adamant", "Naughty",
	"Bold", "Docile", "Relaxed", "Impish", "Lax",
	"Timid", "Hasty", "Serious", "Jolly", "Naive",
	"Modest", "Mild", "Quiet", "Bashful", "Rash",
	"Calm", "Gentle", "Sassy", "Careful", "Quirky",
}

var hpTypeNames = [HPTypeCount]string{
	"Fighting", "Flying", "Poison", "Ground",
	"Rock", "Bug", "Ghost", "Steel",
	"Fire", "Water", "Grass", "Electric",
	"Psychic", "Ice", "Dragon", "Dark",
}

// NatureName 回傳性格名稱；超出範圍回傳 "Any"。
func NatureName(n int) string {
	if n < 0 || n >= NatureCount {
		return "Any"
	}
	return natureNames[n]
}

// NatureByName 以名稱（不分大小寫）查性格編號，"any" 或空字串回傳 AnyNature。
func NatureByName(name string) (int, bool) {
	return lookup(natureNames[:], name, AnyNature)
}

// HPTypeName 回傳覺醒力量屬性名稱；超出範圍回傳 "Any"。
func HPTypeName(t int) string {
	if t < 0 || t >= HPTypeCount {
		return "Any"
	}
	return hpTypeNames[t]
}

// HPTypeByName 以名稱（不分大小寫）查屬性編號。
func HPTypeByName(name string) (int, bool) {
	return lookup(hpTypeNames[:], name, AnyHP)
}

func lookup(table []string, name string, fallback int) (int, bool) {
	name = strings.TrimSpace(name)
	if name == "" || strings.EqualFold(name, "any") {
		return fallback, true
	}
	for i, v := range table {
		if strings.EqualFold(v, name) {
			return i, true
		}
	}
	return fallback, false
}
