package repo

// LocalStorage — клиентское key/value хранилище (аналог window.localStorage).
type LocalStorage interface {
	// SetItem записывает значение, перезаписывая прежнее.
	SetItem(key, value string) error
	// GetItem возвращает значение и признак его наличия.
	GetItem(key string) (string, bool, error)
	// RemoveItem удаляет ключ; отсутствие ключа ошибкой не считается.
	RemoveItem(key string) error
}
