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
	"os"
	"path/filepath"
	"testing"

	"github.com/zintix-labs/ivpid/errs"
	"github.com/zintix-labs/ivpid/sdk/trait"
)

func TestDefaultIsPermissive(t *testing.T) {
	p := Default()
	if p.Nature != trait.AnyNature || p.Ability != trait.AnyAbility || p.HPType != trait.AnyHP || p.HPPower != trait.AnyHP {
		t.Fatalf("default must be permissive: %+v", p)
	}
	if p.ShinyOnly() {
		t.Fatalf("default skips the shiny check")
	}
	if p.IVs != (trait.IVs{}) {
		t.Fatalf("default ivs must be zero")
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("default must validate: %v", err)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		mut  func(p *Profile)
	}{
		{"iv", func(p *Profile) { p.IVs[trait.SpD] = 32 }},
		{"nature", func(p *Profile) { p.Nature = 25 }},
		{"ability", func(p *Profile) { p.Ability = 3 }},
		{"hp type", func(p *Profile) { p.HPType = 16 }},
		{"hp power", func(p *Profile) { p.HPPower = 29 }},
		{"xor", func(p *Profile) { p.IDxorSID = 0x1233 }},
	}
	for _, c := range cases {
		p := Default()
		c.mut(&p)
		err := p.Validate()
		if err == nil {
			t.Errorf("%s: expected error", c.name)
			continue
		}
		if e, ok := errs.AsErr(err); !ok || e.ErrLv != errs.Warn {
			t.Errorf("%s: expected warn level, got %v", c.name, err)
		}
	}
}

const yamlProfile = `
ivs: [31, 31, 31, 0, 0, 0]
exact: true
nature: Adamant
ability: 1
hp_type: dark
hp_power: 60
tid: 12345
sid: 54321
methods: common
workers: 4
`

func TestFromYAML(t *testing.T) {
	s, err := FromYAML([]byte(yamlProfile))
	if err != nil {
		t.Fatalf("FromYAML: %v", err)
	}
	p := s.Profile
	if p.IVs != (trait.IVs{31, 31, 31, 0, 0, 0}) || p.Nature != 3 || p.Ability != 1 || p.HPType != 15 || p.HPPower != 60 {
		t.Fatalf("unexpected profile %+v", p)
	}
	if p.IDxorSID != trait.ShinyValue(12345, 54321) {
		t.Fatalf("IDxorSID = %#x", p.IDxorSID)
	}
	if !s.Exact || s.Methods != "common" || s.Workers != 4 {
		t.Fatalf("unexpected options %+v", s)
	}
}

func TestFromJSONAndTOMLAgree(t *testing.T) {
	js := []byte(`{"ivs":[20,20,20],"nature":"13","hp_type":"any","methods":"chained"}`)
	tm := []byte("ivs = [20, 20, 20]\nnature = \"Jolly\"\nmethods = \"chained\"\n")
	a, err := FromJSON(js)
	if err != nil {
		t.Fatalf("FromJSON: %v", err)
	}
	b, err := FromTOML(tm)
	if err != nil {
		t.Fatalf("FromTOML: %v", err)
	}
	if a.Profile != b.Profile || a.Methods != b.Methods {
		t.Fatalf("json %+v != toml %+v", a, b)
	}
	if a.Profile.Nature != 13 || a.Profile.HPType != trait.AnyHP || a.Profile.ShinyOnly() {
		t.Fatalf("unexpected profile %+v", a.Profile)
	}
}

func TestFileErrors(t *testing.T) {
	bad := [][]byte{
		[]byte("nature: Grumpy\n"),
		[]byte("tid: 1\n"),
		[]byte("ivs: [1,2,3,4,5,6,7]\n"),
		[]byte("hp_power: 80\n"),
		[]byte("unknown_key: 1\n"),
	}
	for _, b := range bad {
		if _, err := FromYAML(b); err == nil {
			t.Errorf("expected error for %q", b)
		}
	}
	if _, err := FromTOML([]byte("oops = 1\n")); err == nil {
		t.Errorf("expected error for unknown toml key")
	}
}

func TestLoadByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "target.yml")
	if err := os.WriteFile(path, []byte(yamlProfile), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err != nil {
		t.Fatalf("Load yml: %v", err)
	}
	other := filepath.Join(dir, "target.ini")
	if err := os.WriteFile(other, []byte("x=1"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(other); err == nil {
		t.Fatalf("expected unsupported format error")
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errs.IsFatal(err) {
		t.Fatalf("missing file should be fatal, got %v", err)
	}
}

func TestLoadFileThenOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "target.yaml")
	if err := os.WriteFile(path, []byte(yamlProfile), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	f.Nature = "Timid"
	f.Workers = 3
	s, err := f.Search()
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if s.Profile.Nature != 10 || s.Workers != 3 {
		t.Fatalf("override got nature %d workers %d", s.Profile.Nature, s.Workers)
	}

	f.Nature = "Sleepy"
	if _, err := f.Search(); err == nil {
		t.Fatalf("unknown nature should fail after override")
	}
}
