package entities

// Utterance is one speech-recognition result delivered by a speech input
// collaborator. Non-final utterances are intermediate hypotheses and may be
// ignored by consumers that only care about finalized text.
type Utterance struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
	IsFinal    bool    `json:"is_final"`
}
