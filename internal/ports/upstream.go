package ports

import "context"

// Удалённые сервисы. Реализации ничего не знают о контракте ответа,
// результат Classify обязательно проходит через reply.Parse.

// голос → текст
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename, mimeType string) (string, error)
}

// смешанный казахский/русский → один связный язык
type Corrector interface {
	Correct(ctx context.Context, text string) (string, error)
}

// текст пользователя → сырой ответ модели (ожидается JSON {answer, action, target})
type IntentClassifier interface {
	Classify(ctx context.Context, userText string) (string, error)
}

// текст → mp3
type Synthesizer interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
