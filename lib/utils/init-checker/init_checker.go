package initchecker

import "fmt"

// CheckInit принимает пары (имя, зависимость) и паникует при первой
// неинициализированной. Вызывается из NewHandler, чтобы нарушение
// порядка сборки сервисов проявлялось на старте, а не в запросе
func CheckInit(pairs ...any) {
	if len(pairs)%2 != 0 {
		panic("CheckInit: odd number of arguments")
	}
	for idx := 0; idx < len(pairs); idx += 2 {
		name, ok := pairs[idx].(string)
		if !ok {
			panic(fmt.Sprintf("CheckInit: argument %v must be a string name", idx))
		}
		if pairs[idx+1] == nil {
			panic(fmt.Sprintf("%s dependency not initialized", name))
		}
	}
}
