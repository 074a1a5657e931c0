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

// Package profile 定義搜尋目標（想要的個體值、性格、特性、覺醒力量與異色條件）與其設定檔格式。
package profile

import (
	"github.com/zintix-labs/ivpid/errs"
	"github.com/zintix-labs/ivpid/sdk/trait"
)

// Profile 為搜尋期間不可變的比對條件。
//
// 個體值依模式解讀為「最低值」或「精確值」；其餘欄位以哨兵值表示不限制：
//   - Nature  : 0-24，trait.AnyNature (-1) 為不限
//   - Ability : 0/1，trait.AnyAbility (2) 為不限
//   - HPType  : 0-15，trait.AnyHP (-1) 為不限
//   - HPPower : 30-70 最低威力，trait.AnyHP (-1) 為不限
//   - IDxorSID: (TID^SID)&^7，trait.NoShinyCheck (1) 為不檢查異色
type Profile struct {
	IVs      trait.IVs
	Nature   int
	Ability  int
	HPType   int
	HPPower  int
	IDxorSID uint16
}

// Default 回傳最寬鬆的條件：全部不限、不檢查異色、個體值 0。
func Default() Profile {
	return Profile{
		Nature:   trait.AnyNature,
		Ability:  trait.AnyAbility,
		HPType:   trait.AnyHP,
		HPPower:  trait.AnyHP,
		IDxorSID: trait.NoShinyCheck,
	}
}

// ShinyOnly 回報是否要求異色。
func (p *Profile) ShinyOnly() bool {
	return p.IDxorSID != trait.NoShinyCheck
}

// Validate 在設定邊界做基本檢查；搜尋核心不再驗證。
func (p *Profile) Validate() error {
	for i, v := range p.IVs {
		if v < 0 || v > 31 {
			return errs.Warnf("iv[%d] out of range: %d (want 0-31)", i, v)
		}
	}
	if p.Nature != trait.AnyNature && (p.Nature < 0 || p.Nature >= trait.NatureCount) {
		return errs.Warnf("nature out of range: %d", p.Nature)
	}
	if p.Ability != trait.AnyAbility && p.Ability != 0 && p.Ability != 1 {
		return errs.Warnf("ability must be 0, 1 or %d: %d", trait.AnyAbility, p.Ability)
	}
	if p.HPType != trait.AnyHP && (p.HPType < 0 || p.HPType >= trait.HPTypeCount) {
		return errs.Warnf("hidden power type out of range: %d", p.HPType)
	}
	if p.HPPower != trait.AnyHP && (p.HPPower < trait.HPMinPower || p.HPPower > trait.HPMaxPower) {
		return errs.Warnf("hidden power must be %d-%d: %d", trait.HPMinPower, trait.HPMaxPower, p.HPPower)
	}
	if p.IDxorSID != trait.NoShinyCheck && p.IDxorSID&7 != 0 {
		return errs.Warnf("IDxorSID must have its low 3 bits masked: %#x", p.IDxorSID)
	}
	return nil
}
