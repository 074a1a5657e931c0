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

// Package stats 把搜尋結果的計數整理成報表，並提供終端表格、JSON、YAML 三種輸出。
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gonum.org/v1/gonum/stat"
)

var lang language.Tag = language.English

// 信賴區間
type CI struct {
	Lo float64 `json:"Lo"`
	Hi float64 `json:"Hi"`
}

// Report 搜尋結果報表
type Report struct {
	Summary *SummaryReport `json:"Summary"`
	Dist    *DistReport    `json:"Dist"`
	isDone  bool
}

// SummaryReport 總覽
//
// 全域掃描時 Candidates = 狀態數 x 2（最高位翻轉）x 每個狀態嘗試的 Method 數；
// 反向 PID 搜尋的每個狀態只是一個候選，Candidates 等於狀態數。
// HitRate 為結果數 / Candidates，CI 為 Clopper–Pearson 95% 區間。
type SummaryReport struct {
	Mode        string  `json:"Mode"`
	Exact       bool    `json:"Exact"`
	Results     int     `json:"Results"`
	States      uint64  `json:"States"`
	Candidates  uint64  `json:"Candidates"`
	HitRate     float64 `json:"HitRate"`
	HitCI       CI      `json:"HitCI"`
	Shiny       int     `json:"Shiny"`
	IVTotalMean float64 `json:"IVTotalMean"`
	IVTotalStd  float64 `json:"IVTotalStd"`
}

// DistReport 結果分佈；Label 與 Count 一一對應，只列出出現過的項目。
type DistReport struct {
	MethodLabel  []string `json:"MethodLabel"`
	MethodCount  []int    `json:"MethodCount"`
	NatureLabel  []string `json:"NatureLabel"`
	NatureCount  []int    `json:"NatureCount"`
	HPTypeLabel  []string `json:"HPTypeLabel"`
	HPTypeCount  []int    `json:"HPTypeCount"`
	HPPowerLabel []int    `json:"HPPowerLabel"`
	HPPowerCount []int    `json:"HPPowerCount"`
	IVTotalLabel []int    `json:"IVTotalLabel"`
	IVTotalCount []int    `json:"IVTotalCount"`
}

// ============================================================
// ** 公開方法 **
// ============================================================

// Done 由計數一次性算出比例、信賴區間與個體值總和的平均／標準差。
func (r *Report) Done() {
	if r.isDone {
		return
	}
	s := r.Summary
	if s.Candidates > 0 {
		s.HitRate, s.HitCI = proportionCICP(int64(s.Results), int64(s.Candidates), 0.95)
	}
	s.IVTotalMean, s.IVTotalStd = weightedMeanStd(r.Dist.IVTotalLabel, r.Dist.IVTotalCount)
	r.isDone = true
}

func (r *Report) WriteWith(w io.Writer, rep ReportRender) error {
	r.Done()
	return rep.Write(w, r)
}

// StdOut 印出用時與總覽表格；有結果時再印出分佈。
func (r *Report) StdOut(ut time.Duration) {
	r.Fprint(os.Stdout, ut)
}

// Fprint 同 StdOut，但寫到 w。
func (r *Report) Fprint(w io.Writer, ut time.Duration) {
	r.Done()
	fmt.Fprint(w, formatDuration(ut, r.Summary.States))
	sk, sm := r.fmtBasic()
	fmt.Fprintln(w, fmtTable("IV / PID Search", sk, sm))
	if r.Summary.Results == 0 {
		return
	}
	dk, dm := r.fmtDist()
	fmt.Fprintln(w, fmtTable("Distribution", dk, dm))
}

// ============================================================
// ** 內部方法 **
// ============================================================

func weightedMeanStd(labels []int, counts []int) (float64, float64) {
	x := make([]float64, len(labels))
	w := make([]float64, len(counts))
	n := 0
	for i := range labels {
		x[i] = float64(labels[i])
		w[i] = float64(counts[i])
		n += counts[i]
	}
	switch {
	case n == 0:
		return 0, 0
	case n == 1:
		return stat.Mean(x, w), 0
	}
	mean, std := stat.MeanStdDev(x, w)
	if math.IsNaN(std) {
		std = 0
	}
	return mean, std
}

func formatDuration(d time.Duration, states uint64) string {
	p := message.NewPrinter(lang)
	if d < 0 {
		d = -d
	}
	sec := d.Seconds()
	if sec <= 0 {
		sec = 1e-9
	}
	sps := int64(float64(states) / sec)
	if sec < 60.0 {
		return p.Sprintf("used: %.2f seconds\nsps : %d states/sec\n", sec, sps)
	}
	s := int(d.Seconds()) % 60
	m := int(d.Minutes()) % 60
	h := int(d.Hours())
	if h == 0 {
		return p.Sprintf("used: %dm %ds\nsps : %d states/sec\n", m, s, sps)
	}
	return p.Sprintf("used: %dh:%dm:%ds\nsps : %d states/sec\n", h, m, s, sps)
}

func (r *Report) fmtBasic() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	s := r.Summary
	exact := "minimum"
	if s.Exact {
		exact = "exact"
	}
	basic := map[string]string{
		"Mode":          s.Mode,
		"IV Match":      exact,
		"States":        p.Sprintf("%d", s.States),
		"Candidates":    p.Sprintf("%d", s.Candidates),
		"Results":       p.Sprintf("%d", s.Results),
		"Hit Rate":      p.Sprintf("%.3g", s.HitRate),
		"Hit Rate CI":   p.Sprintf("[%.3g, %.3g]", s.HitCI.Lo, s.HitCI.Hi),
		"Shiny":         p.Sprintf("%d", s.Shiny),
		"IV Total Mean": p.Sprintf("%.2f", s.IVTotalMean),
		"IV Total STD":  p.Sprintf("%.2f", s.IVTotalStd),
	}
	keys := []string{"Mode", "IV Match", "States", "Candidates", "Results", "Hit Rate", "Hit Rate CI", "Shiny", "IV Total Mean", "IV Total STD"}
	return keys, basic
}

func (r *Report) fmtDist() ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	d := r.Dist
	keys := make([]string, 0, len(d.MethodLabel)+len(d.NatureLabel)+len(d.HPTypeLabel))
	msg := map[string]string{}
	add := func(k string, v int) {
		keys = append(keys, k)
		msg[k] = p.Sprintf("%d", v)
	}
	for i, l := range d.MethodLabel {
		add(l, d.MethodCount[i])
	}
	for i, l := range d.NatureLabel {
		add("Nature "+l, d.NatureCount[i])
	}
	for i, l := range d.HPTypeLabel {
		add("HP "+l, d.HPTypeCount[i])
	}
	return keys, msg
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	// 標題比內容寬時把值欄撐開
	if titleW := runewidth.StringWidth(title); titleW > maxKeyLen+maxValLen+1 {
		maxValLen = titleW - maxKeyLen - 1
	}

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	titleW := runewidth.StringWidth(title)

	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	var sb strings.Builder
	sb.WriteString(top)
	sb.WriteString(p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right)))
	sb.WriteString(divider)
	for _, k := range keys {
		sb.WriteString(p.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k]))))
	}
	sb.WriteString(divider)
	return sb.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
