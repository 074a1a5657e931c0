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

package dto

import (
	"sync"
	"testing"

	"github.com/zintix-labs/ivpid/sdk/method"
	"github.com/zintix-labs/ivpid/sdk/trait"
)

func seedZeroResult() Result {
	return Result{Seed: 0, Method: method.Method1, PID: 0xE97E0000, IVs: trait.IVs{17, 19, 20, 13, 12, 16}}
}

func TestResultDerivedTraits(t *testing.T) {
	r := seedZeroResult()
	if r.Nature() != 14 || r.Ability() != 0 {
		t.Fatalf("nature/ability = %d/%d", r.Nature(), r.Ability())
	}
	if typ, p := r.HiddenPower(); typ != 4 || p != 31 {
		t.Fatalf("hidden power = %d %d", typ, p)
	}
	if r.Shiny(trait.NoShinyCheck) {
		t.Fatalf("sentinel never reports shiny")
	}
	if !r.Shiny(0xE978) {
		t.Fatalf("0x0000 ^ 0xE97E ^ 0xE978 = 6 < 8 must be shiny")
	}
	want := "seed=00000000 Method 1 pid=E97E0000 Naive ability=0 ivs=17/19/20/13/12/16 hp=Rock 31"
	if r.String() != want {
		t.Fatalf("String() = %q", r.String())
	}
}

func TestNewResultDTO(t *testing.T) {
	d := NewResultDTO(seedZeroResult())
	if d.Seed != "00000000" || d.PID != "E97E0000" || d.Nature != "Naive" || d.HPType != "Rock" || d.HPPower != 31 {
		t.Fatalf("unexpected dto %+v", d)
	}
}

func TestTeeAndLocked(t *testing.T) {
	a, b := &Collector{}, &Collector{}
	s := Locked(Tee(a, nil, b))
	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := range 100 {
				s.Emit(Result{Seed: uint32(i*1000 + j)})
			}
		}(i)
	}
	wg.Wait()
	if len(a.Results) != 800 || len(b.Results) != 800 {
		t.Fatalf("got %d/%d results", len(a.Results), len(b.Results))
	}
	Discard.Emit(seedZeroResult())
}
