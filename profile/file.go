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

package profile

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/zintix-labs/ivpid/errs"
	"github.com/zintix-labs/ivpid/sdk/trait"
	"gopkg.in/yaml.v3"
)

// File 是設定檔的外部格式，比 Profile 好寫：性格與屬性可用名稱，異色以 TID/SID 給定。
//
//	ivs: [31, 31, 31, 0, 0, 0]
//	exact: true
//	nature: Adamant
//	hp_type: Dark
//	hp_power: 60
//	tid: 12345
//	sid: 54321
//	methods: common
//	workers: 8
type File struct {
	IVs     []int  `yaml:"ivs" json:"ivs" toml:"ivs"`
	Exact   bool   `yaml:"exact" json:"exact" toml:"exact"`
	Nature  string `yaml:"nature" json:"nature" toml:"nature"`
	Ability *int   `yaml:"ability" json:"ability" toml:"ability"`
	HPType  string `yaml:"hp_type" json:"hp_type" toml:"hp_type"`
	HPPower *int   `yaml:"hp_power" json:"hp_power" toml:"hp_power"`
	TID     *int   `yaml:"tid" json:"tid" toml:"tid"`
	SID     *int   `yaml:"sid" json:"sid" toml:"sid"`
	Methods string `yaml:"methods" json:"methods" toml:"methods"`
	Workers int    `yaml:"workers" json:"workers" toml:"workers"`
}

// Search 為設定檔解析後的結果：比對條件加上搜尋選項。
type Search struct {
	Profile Profile
	Exact   bool
	Methods string
	Workers int
}

// FromYAML 解析 YAML 設定。
func FromYAML(data []byte) (*Search, error) {
	return search(decodeYAML(data))
}

// FromJSON 解析 JSON 設定。
func FromJSON(data []byte) (*Search, error) {
	return search(decodeJSON(data))
}

// FromTOML 解析 TOML 設定。
func FromTOML(data []byte) (*Search, error) {
	return search(decodeTOML(data))
}

// Load 依副檔名選擇解析器（.yaml/.yml/.json/.toml）。
func Load(path string) (*Search, error) {
	f, err := LoadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := f.Search()
	if err != nil {
		return nil, errs.WrapWithExtra(err, "load profile", "file="+path)
	}
	return s, nil
}

// LoadFile 只解碼不檢查，讓 CLI 可以先以旗標覆寫欄位再呼叫 Search。
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errs.Wrap(err, "read profile")
	}
	var f *File
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		f, err = decodeYAML(data)
	case ".json":
		f, err = decodeJSON(data)
	case ".toml":
		f, err = decodeTOML(data)
	default:
		return nil, errs.Warnf("unsupported profile format: %s", path)
	}
	if err != nil {
		return nil, errs.WrapWithExtra(err, "load profile", "file="+path)
	}
	return f, nil
}

func decodeYAML(data []byte) (*File, error) {
	f := &File{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(f); err != nil {
		return nil, errs.Wrap(err, "failed to unmarshal yaml profile")
	}
	return f, nil
}

func decodeJSON(data []byte) (*File, error) {
	f := &File{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(f); err != nil {
		return nil, errs.Wrap(err, "failed to unmarshal json profile")
	}
	return f, nil
}

func decodeTOML(data []byte) (*File, error) {
	f := &File{}
	md, err := toml.Decode(string(data), f)
	if err != nil {
		return nil, errs.Wrap(err, "failed to unmarshal toml profile")
	}
	if un := md.Undecoded(); len(un) > 0 {
		return nil, errs.Warnf("unknown toml keys: %v", un)
	}
	return f, nil
}

func search(f *File, err error) (*Search, error) {
	if err != nil {
		return nil, err
	}
	return f.Search()
}

// Search 把外部格式轉成 Search 並檢查。
func (f *File) Search() (*Search, error) {
	p := Default()

	if len(f.IVs) > len(p.IVs) {
		return nil, errs.Warnf("too many ivs: %d", len(f.IVs))
	}
	copy(p.IVs[:], f.IVs)

	nature, err := parseNamed(f.Nature, trait.NatureByName)
	if err != nil {
		return nil, errs.Wrap(err, "nature")
	}
	p.Nature = nature

	hpType, err := parseNamed(f.HPType, trait.HPTypeByName)
	if err != nil {
		return nil, errs.Wrap(err, "hp_type")
	}
	p.HPType = hpType

	if f.Ability != nil {
		p.Ability = *f.Ability
	}
	if f.HPPower != nil {
		p.HPPower = *f.HPPower
	}

	switch {
	case f.TID != nil && f.SID != nil:
		if !inUint16(*f.TID) || !inUint16(*f.SID) {
			return nil, errs.Warnf("tid/sid must be 0-65535: %d/%d", *f.TID, *f.SID)
		}
		p.IDxorSID = trait.ShinyValue(uint16(*f.TID), uint16(*f.SID))
	case f.TID != nil || f.SID != nil:
		return nil, errs.NewWarn("tid and sid must be given together")
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	if f.Workers < 0 {
		return nil, errs.Warnf("workers must be >= 0: %d", f.Workers)
	}
	return &Search{
		Profile: p,
		Exact:   f.Exact,
		Methods: f.Methods,
		Workers: f.Workers,
	}, nil
}

// parseNamed 接受名稱或數字。
func parseNamed(s string, byName func(string) (int, bool)) (int, error) {
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return n, nil
	}
	v, ok := byName(s)
	if !ok {
		return v, errs.Warnf("unknown name %q", s)
	}
	return v, nil
}

func inUint16(v int) bool {
	return v >= 0 && v <= 0xFFFF
}
