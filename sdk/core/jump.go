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

// Affine 表示一個仿射變換 s -> s*Mul + Add (mod 2^32)。
// LCRNG 走 n 步仍是仿射變換，所以任意步數都能壓成一次乘加。
type Affine struct {
	Mul uint32
	Add uint32
}

// Identity 為走 0 步的變換。
var Identity = Affine{Mul: 1, Add: 0}

// Step 與 StepBack 為單步的前進／後退。
var (
	Step     = Affine{Mul: Mult, Add: Add}
	StepBack = Affine{Mul: MultInv, Add: AddInv}
)

// Apply 對 state 套用變換。
func (f Affine) Apply(state uint32) uint32 {
	return state*f.Mul + f.Add
}

// Then 回傳「先 f 再 g」的合成變換。
func (f Affine) Then(g Affine) Affine {
	return Affine{
		Mul: f.Mul * g.Mul,
		Add: f.Add*g.Mul + g.Add,
	}
}

// Pow 回傳 f 連續套用 n 次的變換（平方倍增）。
func (f Affine) Pow(n uint32) Affine {
	acc := Identity
	for n > 0 {
		if n&1 == 1 {
			acc = acc.Then(f)
		}
		f = f.Then(f)
		n >>= 1
	}
	return acc
}

// Jump 回傳前進 n 步的變換。
func Jump(n uint32) Affine {
	return Step.Pow(n)
}

// JumpBack 回傳後退 n 步的變換。
func JumpBack(n uint32) Affine {
	return StepBack.Pow(n)
}
