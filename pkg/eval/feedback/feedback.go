// Package feedback records runtime type profiles at interpreter sites and
// derives specialization candidates from them.
//
// Everything here is advisory: the interpreter produces the same results with
// feedback disabled. A Recorder is not safe for concurrent use; the
// interpreter serializes access to it.
package feedback

import (
	"sort"

	"github.com/paiml/ruchy-sub012/pkg/logutil"
)

var logger = logutil.GetLogger("[feedback] ")

// SiteID identifies an operation site in the program being run.
type SiteID uint64

// MaxCombos is the number of distinct type combinations a site keeps before it
// is considered megamorphic.
const MaxCombos = 4

// DefaultHotThreshold is the default number of observations after which a
// monomorphic site becomes a specialization candidate.
const DefaultHotThreshold = 8

// BinaryOpFeedback is the profile of a binary operator site.
type BinaryOpFeedback struct {
	Op     string
	Combos []BinaryCombo
	// Total number of observations, including those not kept in Combos.
	Count       int
	Megamorphic bool
}

// BinaryCombo is one observed combination of operand and result types.
type BinaryCombo struct {
	Left, Right, Result string
	Count               int
}

// Monomorphic reports whether a single combination has been observed.
func (f *BinaryOpFeedback) Monomorphic() bool {
	return len(f.Combos) == 1 && !f.Megamorphic
}

// VariableFeedback is the profile of assignments to a variable.
type VariableFeedback struct {
	Name    string
	Types   []string
	Current string
	// Transitions counts assignments that changed the type of the variable.
	Transitions []Transition
	Count       int
}

// Transition is a change of the type held by a variable.
type Transition struct {
	From, To string
	Count    int
}

// Stability returns 1 divided by the number of distinct types assigned.
func (f *VariableFeedback) Stability() float64 {
	if len(f.Types) == 0 {
		return 0
	}
	return 1 / float64(len(f.Types))
}

// CallSiteFeedback is the profile of a call site.
type CallSiteFeedback struct {
	Callees    []string
	Signatures []Signature
	Count      int
}

// Signature is one observed combination of argument and return types.
type Signature struct {
	Args   []string
	Return string
	Count  int
}

// Monomorphic reports whether the site has called a single callee with a
// single signature.
func (f *CallSiteFeedback) Monomorphic() bool {
	return len(f.Callees) == 1 && len(f.Signatures) == 1
}

// Recorder collects type feedback.
type Recorder struct {
	// HotThreshold is the minimum observation count for a site to be reported
	// as a specialization candidate.
	HotThreshold int

	binOps map[SiteID]*BinaryOpFeedback
	vars   map[string]*VariableFeedback
	calls  map[SiteID]*CallSiteFeedback
	total  int
}

// NewRecorder creates an empty Recorder.
func NewRecorder(hotThreshold int) *Recorder {
	if hotThreshold <= 0 {
		hotThreshold = DefaultHotThreshold
	}
	r := &Recorder{HotThreshold: hotThreshold}
	r.Clear()
	return r
}

// Clear drops all recorded feedback.
func (r *Recorder) Clear() {
	r.binOps = make(map[SiteID]*BinaryOpFeedback)
	r.vars = make(map[string]*VariableFeedback)
	r.calls = make(map[SiteID]*CallSiteFeedback)
	r.total = 0
}

// RecordBinaryOp records the operand and result types at a binary operator
// site.
func (r *Recorder) RecordBinaryOp(site SiteID, op, left, right, result string) {
	r.total++
	f := r.binOps[site]
	if f == nil {
		f = &BinaryOpFeedback{Op: op}
		r.binOps[site] = f
	}
	f.Count++
	for i := range f.Combos {
		c := &f.Combos[i]
		if c.Left == left && c.Right == right && c.Result == result {
			c.Count++
			return
		}
	}
	if len(f.Combos) == MaxCombos {
		if !f.Megamorphic {
			logger.Printf("binary op site %d (%s) is megamorphic", site, op)
		}
		f.Megamorphic = true
		return
	}
	f.Combos = append(f.Combos, BinaryCombo{left, right, result, 1})
}

// RecordVariable records the type of a value assigned to a variable.
func (r *Recorder) RecordVariable(name, typ string) {
	r.total++
	f := r.vars[name]
	if f == nil {
		f = &VariableFeedback{Name: name}
		r.vars[name] = f
	}
	f.Count++
	if f.Current != "" && f.Current != typ {
		f.addTransition(f.Current, typ)
	}
	f.Current = typ
	for _, t := range f.Types {
		if t == typ {
			return
		}
	}
	f.Types = append(f.Types, typ)
}

func (f *VariableFeedback) addTransition(from, to string) {
	for i := range f.Transitions {
		if f.Transitions[i].From == from && f.Transitions[i].To == to {
			f.Transitions[i].Count++
			return
		}
	}
	f.Transitions = append(f.Transitions, Transition{from, to, 1})
}

// RecordCall records the callee, argument types and return type at a call
// site.
func (r *Recorder) RecordCall(site SiteID, callee string, args []string, ret string) {
	r.total++
	f := r.calls[site]
	if f == nil {
		f = &CallSiteFeedback{}
		r.calls[site] = f
	}
	f.Count++
	if !contains(f.Callees, callee) {
		f.Callees = append(f.Callees, callee)
	}
	for i := range f.Signatures {
		s := &f.Signatures[i]
		if s.Return == ret && equalStrings(s.Args, args) {
			s.Count++
			return
		}
	}
	if len(f.Signatures) < MaxCombos {
		f.Signatures = append(f.Signatures, Signature{append([]string(nil), args...), ret, 1})
	}
}

// BinaryOp returns the feedback for a binary operator site.
func (r *Recorder) BinaryOp(site SiteID) (*BinaryOpFeedback, bool) {
	f, ok := r.binOps[site]
	return f, ok
}

// Variable returns the feedback for a variable.
func (r *Recorder) Variable(name string) (*VariableFeedback, bool) {
	f, ok := r.vars[name]
	return f, ok
}

// Call returns the feedback for a call site.
func (r *Recorder) Call(site SiteID) (*CallSiteFeedback, bool) {
	f, ok := r.calls[site]
	return f, ok
}

// Stats summarizes the recorded feedback.
type Stats struct {
	BinaryOpSites        int
	MonomorphicBinaryOps int
	PolymorphicBinaryOps int
	MegamorphicBinaryOps int
	Variables            int
	StableVariables      int
	CallSites            int
	MonomorphicCallSites int
	TotalRecordings      int
}

// Stats returns a summary of the recorded feedback.
func (r *Recorder) Stats() Stats {
	s := Stats{
		BinaryOpSites:   len(r.binOps),
		Variables:       len(r.vars),
		CallSites:       len(r.calls),
		TotalRecordings: r.total,
	}
	for _, f := range r.binOps {
		switch {
		case f.Megamorphic:
			s.MegamorphicBinaryOps++
		case len(f.Combos) == 1:
			s.MonomorphicBinaryOps++
		default:
			s.PolymorphicBinaryOps++
		}
	}
	for _, f := range r.vars {
		if len(f.Types) == 1 {
			s.StableVariables++
		}
	}
	for _, f := range r.calls {
		if f.Monomorphic() {
			s.MonomorphicCallSites++
		}
	}
	return s
}

// CandidateKind is the kind of site a specialization candidate refers to.
type CandidateKind uint8

const (
	BinaryOpCandidate CandidateKind = iota
	VariableCandidate
	CallSiteCandidate
)

func (k CandidateKind) String() string {
	switch k {
	case BinaryOpCandidate:
		return "binary-op"
	case VariableCandidate:
		return "variable"
	case CallSiteCandidate:
		return "call-site"
	}
	return "unknown"
}

// Expected speedups of specializing each kind of site. Arithmetic on known
// primitive types skips dispatch entirely; calls additionally skip argument
// boxing.
const (
	binaryOpSpeedup = 2.0
	variableSpeedup = 1.5
	callSiteSpeedup = 3.0
)

// Candidate is a site worth specializing.
type Candidate struct {
	Kind CandidateKind
	// Site is set for binary-op and call-site candidates.
	Site SiteID
	// Name is the variable name, the operator or the callee.
	Name    string
	Types   []string
	Count   int
	Speedup float64
}

// Score is the expected benefit of specializing the candidate.
func (c Candidate) Score() float64 { return float64(c.Count) * c.Speedup }

// SpecializationCandidates returns the monomorphic sites and stable variables
// observed at least HotThreshold times, sorted by decreasing Score.
func (r *Recorder) SpecializationCandidates() []Candidate {
	var cs []Candidate
	for site, f := range r.binOps {
		if f.Monomorphic() && f.Count >= r.HotThreshold {
			c := f.Combos[0]
			cs = append(cs, Candidate{BinaryOpCandidate, site, f.Op,
				[]string{c.Left, c.Right, c.Result}, f.Count, binaryOpSpeedup})
		}
	}
	for name, f := range r.vars {
		if len(f.Types) == 1 && f.Count >= r.HotThreshold {
			cs = append(cs, Candidate{VariableCandidate, 0, name,
				[]string{f.Types[0]}, f.Count, variableSpeedup})
		}
	}
	for site, f := range r.calls {
		if f.Monomorphic() && f.Count >= r.HotThreshold {
			sig := f.Signatures[0]
			types := append(append([]string(nil), sig.Args...), sig.Return)
			cs = append(cs, Candidate{CallSiteCandidate, site, f.Callees[0],
				types, f.Count, callSiteSpeedup})
		}
	}
	sort.Slice(cs, func(i, j int) bool {
		si, sj := cs[i].Score(), cs[j].Score()
		if si != sj {
			return si > sj
		}
		if cs[i].Kind != cs[j].Kind {
			return cs[i].Kind < cs[j].Kind
		}
		if cs[i].Site != cs[j].Site {
			return cs[i].Site < cs[j].Site
		}
		return cs[i].Name < cs[j].Name
	})
	return cs
}

func contains(ss []string, s string) bool {
	for _, t := range ss {
		if t == s {
			return true
		}
	}
	return false
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
