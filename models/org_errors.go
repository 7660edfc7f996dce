package models

import "github.com/pkg/errors"

// классификация ошибок ядра назначений, проверяется через errors.Is
var (
	ErrNotFound     = errors.New("запись не найдена")
	ErrValidation   = errors.New("некорректные данные запроса")
	ErrConflict     = errors.New("конкурентное изменение, операция отклонена")
	ErrInvalidState = errors.New("недопустимое состояние записи")
)
