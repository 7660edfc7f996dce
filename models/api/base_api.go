package apimodels

import "github.com/pkg/errors"

const (
	statusSuccess = "success"
	statusFail    = "fail"
)

// Response - единый конверт ответа api
type Response struct {
	Status  string      `json:"status"`            // результат обработки fail/success
	Message string      `json:"message,omitempty"` // сообщение ошибки
	Data    interface{} `json:"data,omitempty"`    // данные ответа
}

// ScrollerResponse - ответ для списков, общее количество записей с учётом фильтра
type ScrollerResponse struct {
	Response
	RowCount int64 `json:"row_count,omitempty"`
}

func NewError(message string) Response {
	return Response{
		Status:  statusFail,
		Message: message,
	}
}

func NewResponse(data interface{}) Response {
	return Response{
		Status: statusSuccess,
		Data:   data,
	}
}

func NewScrollerResponse(data interface{}, rowCount int64) ScrollerResponse {
	return ScrollerResponse{
		Response: Response{
			Status: statusSuccess,
			Data:   data,
		},
		RowCount: rowCount,
	}
}

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

type Pagination struct {
	Limit int `json:"limit"` // записей на странице
	Page  int `json:"page"`  // номер страницы начиная с 1
}

func (r Pagination) Validate() error {
	if r.Page < 0 || r.Limit < 0 {
		return errors.New("параметры страницы не могут быть отрицательными")
	}
	return nil
}

// GetPage нормализует параметры: нулевые значения заменяются умолчаниями,
// размер страницы ограничен сверху
func (r Pagination) GetPage() (page, limit int) {
	page = r.Page
	if page < 1 {
		page = 1
	}
	limit = r.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}
