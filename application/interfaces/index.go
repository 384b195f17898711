package interfaces

// ApplicationContext carries the framework context, the bound request body
// and request metadata collected by the middlewares into a controller.
type ApplicationContext[T any] struct {
	Ctx        any
	Body       *T
	Keys       map[string]any
	Header     map[string][]string
	UserAgent  string
	DeviceName string
	ClientIP   string
}

func (ac *ApplicationContext[T]) GetHeader(key string) *string {
	if ac.Header == nil {
		return nil
	}
	values, ok := ac.Header[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

func (ac *ApplicationContext[T]) SetContextData(key string, value any) {
	if ac.Keys == nil {
		ac.Keys = map[string]any{}
	}
	ac.Keys[key] = value
}

func (ac *ApplicationContext[T]) GetContextData(key string) any {
	if ac.Keys == nil {
		return nil
	}
	return ac.Keys[key]
}
