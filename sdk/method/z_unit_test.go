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

package method

import (
	"testing"

	"github.com/zintix-labs/ivpid/sdk/core"
	"github.com/zintix-labs/ivpid/sdk/trait"
)

func TestWalkSeedZeroMethod1(t *testing.T) {
	f := Walk(0, Method1)
	want := Frame{PIDLow: 0x0000, PIDHigh: 0xE97E, IV1: 0x5271, IV2: 0x31B0}
	if f != want {
		t.Fatalf("Walk(0, Method1) = %+v, want %+v", f, want)
	}
	if f.PID() != 0xE97E0000 {
		t.Fatalf("PID = %#x", f.PID())
	}
}

// 每個 Method 的四個值都必須取自位置表指定的呼叫。
func TestWalkFollowsSchedule(t *testing.T) {
	seed := uint32(0x1A2B3C4D)
	outs := make([]uint16, 8)
	state := seed
	for i := 1; i < len(outs); i++ {
		state, outs[i] = core.Next(state)
	}
	for _, m := range AllGBA.Methods() {
		s, ok := ScheduleOf(m)
		if !ok {
			t.Fatalf("%v has no schedule", m)
		}
		f := Walk(seed, m)
		if f.PIDLow != outs[s.PIDLow] || f.PIDHigh != outs[s.PIDHigh] || f.IV1 != outs[s.IV1] || f.IV2 != outs[s.IV2] {
			t.Fatalf("%v: frame %+v does not follow schedule %+v", m, f, s)
		}
		low, high := PIDFrom(seed, m)
		if low != f.PIDLow || high != f.PIDHigh {
			t.Fatalf("%v: PIDFrom = %#x %#x, want %#x %#x", m, low, high, f.PIDLow, f.PIDHigh)
		}
	}
}

func TestLocateInvertsWalk(t *testing.T) {
	for _, seed := range []uint32{0, 1, 0x7FFFFFFF, 0x80000000, 0xDEADBEEF} {
		for _, m := range AllGBA.Methods() {
			s, _ := ScheduleOf(m)
			iv2State := core.Jump(s.IV2).Apply(seed)
			origin, iv1 := Locate(iv2State, m)
			f := Walk(seed, m)
			if origin != seed {
				t.Fatalf("%v: Locate origin = %#x, want %#x", m, origin, seed)
			}
			if iv1 != f.IV1 || core.Output(iv2State) != f.IV2 {
				t.Fatalf("%v: Locate iv1 = %#x, want %#x", m, iv1, f.IV1)
			}
		}
	}
}

func TestSets(t *testing.T) {
	if got := NDS.Methods(); len(got) != 1 || got[0] != Method1 {
		t.Fatalf("NDS = %v", got)
	}
	if got := CommonGBA.Methods(); len(got) != 3 || CommonGBA.Has(Method3) {
		t.Fatalf("CommonGBA = %v", got)
	}
	if got := AllGBA.Methods(); len(got) != 4 {
		t.Fatalf("AllGBA = %v", got)
	}
	if AllGBA.Has(Chained) || Of(Chained) != 0 {
		t.Fatalf("Chained is never part of a method set")
	}
	if Of(Method1, Method2, Method4) != CommonGBA {
		t.Fatalf("Of mismatch")
	}

	cases := []struct {
		in   string
		want Set
	}{
		{"", NDS},
		{"nds", NDS},
		{"0", NDS},
		{"common", CommonGBA},
		{"1", CommonGBA},
		{"ALL", AllGBA},
		{"2", AllGBA},
		{"m1,m3", Of(Method1, Method3)},
	}
	for _, c := range cases {
		got, err := ParseSet(c.in)
		if err != nil || got != c.want {
			t.Errorf("ParseSet(%q) = %v %v, want %v", c.in, got, err, c.want)
		}
	}
	if _, err := ParseSet("m9"); err == nil {
		t.Fatalf("expected error for m9")
	}
	if NDS.String() != "nds" || Method4.String() != "Method 4" {
		t.Fatalf("String mismatch")
	}
}

func TestChainedWalkIsShiny(t *testing.T) {
	tsv := trait.ShinyValue(24294, 11001)
	for _, seed := range []uint32{0, 0x12345678, 0x9ABCDEF0, 0xFFFFFFFF} {
		f := ChainedWalk(seed, tsv)
		if !trait.XORTest(f.PIDLow, f.PIDHigh, tsv) {
			t.Fatalf("chained PID %#x from %#x is not shiny", f.PID(), seed)
		}
		if !ChainedMatches(seed, f.PID(), tsv) {
			t.Fatalf("ChainedMatches rejects its own walk from %#x", seed)
		}
		if ChainedMatches(seed, f.PID()^0x00100010, tsv) {
			t.Fatalf("ChainedMatches accepts a PID with a flipped random bit")
		}
		if ChainedMatches(seed, f.PID()^0x00100000, tsv) {
			t.Fatalf("ChainedMatches accepts a PID breaking the shiny relation")
		}
	}
}

func TestChainedWalkLayout(t *testing.T) {
	seed := uint32(0x0BADF00D)
	outs := make([]uint16, chainedIV2+1)
	state := seed
	for i := 1; i < len(outs); i++ {
		state, outs[i] = core.Next(state)
	}
	f := ChainedWalk(seed, 0)
	low := outs[1] & 7
	for i := 3; i < 16; i++ {
		low |= (outs[i] & 1) << i
	}
	if f.PIDLow != low {
		t.Fatalf("PIDLow = %#x, want %#x", f.PIDLow, low)
	}
	if f.PIDHigh&7 != outs[2]&7 || f.PIDHigh&0xFFF8 != low&0xFFF8 {
		t.Fatalf("PIDHigh = %#x", f.PIDHigh)
	}
	if f.IV1 != outs[chainedIV1] || f.IV2 != outs[chainedIV2] {
		t.Fatalf("IVs come right after the PID calls")
	}

	origin, iv1 := ChainedLocate(state)
	if origin != seed || iv1 != f.IV1 {
		t.Fatalf("ChainedLocate = %#x %#x", origin, iv1)
	}
}

// 最高位翻轉不影響連鎖異色的 PID 與 IV。
func TestChainedSignBitInvariant(t *testing.T) {
	for _, seed := range []uint32{1, 0x7654321, 0x3FFFFFFF} {
		a := ChainedWalk(seed, 0x1238)
		b := ChainedWalk(seed^core.SignBit, 0x1238)
		if a.PID() != b.PID() || a.IV1&0x7FFF != b.IV1&0x7FFF || a.IV2&0x7FFF != b.IV2&0x7FFF {
			t.Fatalf("sign bit changed the chained result: %+v vs %+v", a, b)
		}
	}
}
