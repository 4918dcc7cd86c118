package domain

// State состояние диалога с пользователем
type State string

const (
	StateIdle                 State = "idle"
	StateExtracting           State = "extracting"
	StateAwaitingFormatChoice State = "awaiting_format_choice"
	StateExporting            State = "exporting"
)

// Допустимые переходы
var transitions = map[State][]State{
	StateIdle:                 {StateExtracting, StateIdle},
	StateExtracting:           {StateAwaitingFormatChoice, StateIdle},
	StateAwaitingFormatChoice: {StateExporting, StateIdle, StateExtracting},
	StateExporting:            {StateIdle},
}

// CanTransition проверяет, разрешён ли переход
func (s State) CanTransition(to State) bool {
	for _, next := range transitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

func (s State) String() string {
	return string(s)
}

// Outcome итог обработки одного события
type Outcome string

const (
	OutcomeGreeted          Outcome = "greeted"
	OutcomeUnsupported      Outcome = "unsupported_format"
	OutcomeTooLarge         Outcome = "file_too_large"
	OutcomeDecodeError      Outcome = "decode_error"
	OutcomeDocumentError    Outcome = "document_open_error"
	OutcomeEmpty            Outcome = "empty_extraction"
	OutcomeExtracted        Outcome = "extracted"
	OutcomeExtractionFailed Outcome = "extraction_failed"
	OutcomeUnknownToken     Outcome = "unknown_token"
	OutcomeStale            Outcome = "stale_session"
	OutcomeExported         Outcome = "exported"
	OutcomeExportFailed     Outcome = "export_failed"
	OutcomeTimeout          Outcome = "timeout"
)

func (o Outcome) String() string {
	return string(o)
}
