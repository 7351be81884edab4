package redux

// DispatchFunc hands an action to the next stage of a dispatch and returns
// the state that stage produced.
type DispatchFunc func(action Action) (State, error)

// API is the store surface visible to middleware.
type API interface {
	GetState() State
	Dispatch(action Action) (State, error)
}

// Middleware intercepts actions between Dispatch and the root reducer.
// Calling next forwards the action; returning without calling next drops it.
type Middleware interface {
	Invoke(api API, next DispatchFunc, action Action) (State, error)
}

// MiddlewareFunc adapts a function to Middleware.
type MiddlewareFunc func(api API, next DispatchFunc, action Action) (State, error)

// Invoke implements Middleware.
func (f MiddlewareFunc) Invoke(api API, next DispatchFunc, action Action) (State, error) {
	if f == nil {
		return next(action)
	}
	return f(api, next, action)
}

// ChainBuilder binds a middleware list to a store and to the terminal
// callback that runs the root reducer.
type ChainBuilder func(api API, terminal DispatchFunc) DispatchFunc

// ApplyMiddleware returns a ChainBuilder running middlewares in the given
// order: the first entry sees the action first and wraps the rest, the last
// entry's next is the terminal callback. Nil entries are dropped.
func ApplyMiddleware(middlewares ...Middleware) ChainBuilder {
	chain := make([]Middleware, 0, len(middlewares))
	for _, mw := range middlewares {
		if mw == nil {
			continue
		}
		chain = append(chain, mw)
	}

	return func(api API, terminal DispatchFunc) DispatchFunc {
		return func(action Action) (State, error) {
			// Private to this invocation.
			queue := append([]Middleware(nil), chain...)
			var advance DispatchFunc
			advance = func(action Action) (State, error) {
				if len(queue) == 0 {
					return terminal(action)
				}
				mw := queue[0]
				queue = queue[1:]
				return mw.Invoke(api, advance, action)
			}
			return advance(action)
		}
	}
}
