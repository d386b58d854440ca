package ui

import "context"

// Alerter показывает модальное сообщение с кнопками.
type Alerter interface {
	Alert(title, subTitle string, buttons ...string)
}

// Loader — индикатор ожидания.
type Loader interface {
	Present()
	Dismiss()
}

// Page — экран, который умеет себя отрисовать.
type Page interface {
	Render(ctx context.Context) error
}

// Navigator заменяет корневой экран.
type Navigator interface {
	SetRoot(ctx context.Context, p Page) error
}
