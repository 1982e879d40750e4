package game

// Validity is the referee status of a clue.
type Validity string

const (
	ValidityPending Validity = "pending"
	ValidityValid   Validity = "valid"
	ValidityInvalid Validity = "invalid"
)

// Violation kinds reported by rule validators.
const (
	ViolationMultipleWords = "multiple-words"
	ViolationExactMatch    = "exact-match"
	ViolationVariant       = "variant"
	ViolationLetterCount   = "letter-count"
	ViolationPosition      = "position"
)

// Verdict is a validator's judgement of one clue.
type Verdict struct {
	Valid      bool     `json:"valid"`
	Violation  string   `json:"violation,omitempty"`
	Referenced []string `json:"referenced,omitempty"`
	Reason     string   `json:"reason,omitempty"`
}

// Approve returns a valid verdict.
func Approve(reason string) Verdict {
	return Verdict{Valid: true, Reason: reason}
}

// Reject returns an invalid verdict naming the violated rule and the board
// names it concerns.
func Reject(violation string, referenced ...string) Verdict {
	return Verdict{Violation: violation, Referenced: referenced}
}

// GuessOutcome classifies a revealed cell from the guessing team's side.
type GuessOutcome string

const (
	OutcomeAllyHit     GuessOutcome = "ally_hit"
	OutcomeEnemyHit    GuessOutcome = "enemy_hit"
	OutcomeCivilianHit GuessOutcome = "civilian_hit"
	OutcomeIllegalHit  GuessOutcome = "illegal_hit"
)

// Classify returns the outcome of team revealing a cell of identity id.
func Classify(team Team, id Identity) GuessOutcome {
	switch id {
	case team.Ally():
		return OutcomeAllyHit
	case team.Opponent().Ally():
		return OutcomeEnemyHit
	case IdentityIllegal:
		return OutcomeIllegalHit
	}
	return OutcomeCivilianHit
}

// EndReason records why a turn closed. Empty means the turn is still open.
type EndReason string

const (
	EndInvalidClue     EndReason = "invalid_clue"
	EndBudgetExhausted EndReason = "budget_exhausted"
	EndWrongHit        EndReason = "wrong_hit"
	EndVoluntaryStop   EndReason = "voluntary_stop"
	EndIllegalContact  EndReason = "illegal_contact"
	EndAlliesExhausted EndReason = "allies_exhausted"
)

// GuessRecord is one revealed guess.
type GuessRecord struct {
	Name     string       `json:"name"`
	Identity Identity     `json:"identity"`
	Outcome  GuessOutcome `json:"outcome"`
}

// PlayRecord is one clue attempt and everything that followed it.
type PlayRecord struct {
	Seq        int64         `json:"seq"`
	Turn       int           `json:"turn"`
	Team       Team          `json:"team"`
	Clue       string        `json:"clue"`
	Number     ClueNumber    `json:"number"`
	Validity   Validity      `json:"validity"`
	Violation  string        `json:"violation,omitempty"`
	Referenced []string      `json:"referenced,omitempty"`
	Reason     string        `json:"reason,omitempty"`
	Guesses    []GuessRecord `json:"guesses"`
	EndReason  EndReason     `json:"end_reason,omitempty"`

	// PenaltyTarget is the opposing ally revealed for an invalid clue.
	PenaltyTarget string `json:"penalty_target,omitempty"`

	// Note explains abnormal exits (skipped penalty, exhausted retries).
	Note string `json:"note,omitempty"`
}

// Closed reports whether the turn has ended.
func (r PlayRecord) Closed() bool {
	return r.EndReason != ""
}

// AllyHits counts guesses that found the team's own allies.
func (r PlayRecord) AllyHits() int {
	n := 0
	for _, g := range r.Guesses {
		if g.Outcome == OutcomeAllyHit {
			n++
		}
	}
	return n
}

func (r PlayRecord) clone() PlayRecord {
	r.Referenced = append([]string(nil), r.Referenced...)
	r.Guesses = append([]GuessRecord(nil), r.Guesses...)
	return r
}

// Ledger is the append-only history of one game. At most one record is open
// at a time and only the open record accepts a verdict, guesses and closure.
type Ledger struct {
	records []PlayRecord
	clock   seqClock
}

// NewLedger creates an empty ledger with a fresh logical clock.
func NewLedger() *Ledger {
	return &Ledger{}
}

// RecordClue opens a new record with pending validity. The record's Turn is
// its position in the ledger, since every turn produces exactly one record.
func (l *Ledger) RecordClue(team Team, text string, number ClueNumber) (PlayRecord, error) {
	if open := l.open(); open != nil {
		return PlayRecord{}, teamError(CodeTurnOpen, open.Team, "turn %d is still open", open.Turn)
	}
	if !team.Valid() {
		return PlayRecord{}, newError(CodeInvalidInput, "invalid team %q", team)
	}
	if !number.Valid() {
		return PlayRecord{}, newError(CodeInvalidInput, "invalid clue number %s", number)
	}
	l.records = append(l.records, PlayRecord{
		Seq:      l.clock.next(),
		Turn:     len(l.records),
		Team:     team,
		Clue:     text,
		Number:   number,
		Validity: ValidityPending,
		Guesses:  []GuessRecord{},
	})
	return l.records[len(l.records)-1].clone(), nil
}

// RecordValidity attaches the verdict to the open record. Exactly one call
// per clue.
func (l *Ledger) RecordValidity(v Verdict) error {
	r := l.open()
	if r == nil {
		return newError(CodeNoOpenTurn, "no open turn for verdict")
	}
	if r.Validity != ValidityPending {
		return teamError(CodeWrongPhase, r.Team, "verdict already recorded for turn %d", r.Turn)
	}
	if v.Valid {
		r.Validity = ValidityValid
	} else {
		r.Validity = ValidityInvalid
		r.Violation = v.Violation
		r.Referenced = append([]string(nil), v.Referenced...)
	}
	r.Reason = v.Reason
	return nil
}

// RecordGuess appends a guess to the open, validated record.
func (l *Ledger) RecordGuess(name string, id Identity, outcome GuessOutcome) error {
	r := l.open()
	if r == nil {
		return newError(CodeNoOpenTurn, "no open turn for guess")
	}
	if r.Validity != ValidityValid {
		return teamError(CodeWrongPhase, r.Team, "turn %d is %s, guesses need a valid clue", r.Turn, r.Validity)
	}
	r.Guesses = append(r.Guesses, GuessRecord{Name: name, Identity: id, Outcome: outcome})
	return nil
}

// RecordPenalty stores the penalty result on the open record. target is
// empty when no cell was revealed; note says why.
func (l *Ledger) RecordPenalty(target, note string) error {
	r := l.open()
	if r == nil {
		return newError(CodeNoOpenTurn, "no open turn for penalty")
	}
	r.PenaltyTarget = target
	r.Note = note
	return nil
}

// Annotate sets the note of the open record.
func (l *Ledger) Annotate(note string) error {
	r := l.open()
	if r == nil {
		return newError(CodeNoOpenTurn, "no open turn to annotate")
	}
	r.Note = note
	return nil
}

// CloseTurn marks the open record terminal.
func (l *Ledger) CloseTurn(reason EndReason) error {
	r := l.open()
	if r == nil {
		return newError(CodeNoOpenTurn, "no open turn to close")
	}
	if reason == "" {
		return newError(CodeInvalidInput, "end reason is required")
	}
	r.EndReason = reason
	return nil
}

// UnsatisfiedCount looks at team's most recent closed record: for a valid
// concrete clue k it returns max(0, k - ally hits), otherwise 0. The engine
// does not use it; it is context for proposers and choosers.
func (l *Ledger) UnsatisfiedCount(team Team) int {
	for i := len(l.records) - 1; i >= 0; i-- {
		r := l.records[i]
		if r.Team != team || !r.Closed() {
			continue
		}
		if r.Validity != ValidityValid || !r.Number.IsConcrete() {
			return 0
		}
		return max(0, r.Number.Value()-r.AllyHits())
	}
	return 0
}

// Open returns a copy of the open record, if any.
func (l *Ledger) Open() (PlayRecord, bool) {
	r := l.open()
	if r == nil {
		return PlayRecord{}, false
	}
	return r.clone(), true
}

// Records returns a deep copy of all records in order.
func (l *Ledger) Records() []PlayRecord {
	out := make([]PlayRecord, len(l.records))
	for i, r := range l.records {
		out[i] = r.clone()
	}
	return out
}

// Len returns the number of records.
func (l *Ledger) Len() int {
	return len(l.records)
}

func (l *Ledger) open() *PlayRecord {
	if len(l.records) == 0 {
		return nil
	}
	r := &l.records[len(l.records)-1]
	if r.Closed() {
		return nil
	}
	return r
}
