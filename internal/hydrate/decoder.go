// Package hydrate decodes loosely typed store values into Go types.
package hydrate

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Context identifies the value being decoded.
type Context struct {
	StoreID string
	Key     string
}

func (c Context) label() string {
	if c.Key == "" {
		return "state"
	}
	return c.Key
}

// PreHook may replace the raw value before decoding.
type PreHook func(Context, any) (any, error)

// PostHook validates or adjusts the decoded value.
type PostHook[T any] func(Context, *T) error

// CustomDecoder replaces the JSON round trip.
type CustomDecoder[T any] func(Context, any) (T, error)

type DecoderOption[T any] func(*Decoder[T])

// Decoder converts store values into T.
type Decoder[T any] struct {
	preHooks     []PreHook
	postHooks    []PostHook[T]
	configureDec []func(*json.Decoder)
	custom       CustomDecoder[T]
}

func WithPreHook[T any](hook PreHook) DecoderOption[T] {
	return func(d *Decoder[T]) {
		if hook != nil {
			d.preHooks = append(d.preHooks, hook)
		}
	}
}

func WithPostHook[T any](hook PostHook[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		if hook != nil {
			d.postHooks = append(d.postHooks, hook)
		}
	}
}

// WithUseNumber decodes numbers held in interface values as json.Number.
func WithUseNumber[T any]() DecoderOption[T] {
	return WithDecoderConfig[T](func(dec *json.Decoder) {
		dec.UseNumber()
	})
}

// WithDisallowUnknownFields rejects object keys with no matching field.
func WithDisallowUnknownFields[T any]() DecoderOption[T] {
	return WithDecoderConfig[T](func(dec *json.Decoder) {
		dec.DisallowUnknownFields()
	})
}

func WithDecoderConfig[T any](configure func(*json.Decoder)) DecoderOption[T] {
	return func(d *Decoder[T]) {
		if configure != nil {
			d.configureDec = append(d.configureDec, configure)
		}
	}
}

func WithCustomDecoder[T any](decoder CustomDecoder[T]) DecoderOption[T] {
	return func(d *Decoder[T]) {
		d.custom = decoder
	}
}

func NewDecoder[T any](opts ...DecoderOption[T]) *Decoder[T] {
	d := &Decoder[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	return d
}

// Decode converts value into T. A value that already holds a T is returned
// as is when no decoding options are configured.
func (d *Decoder[T]) Decode(ctx Context, value any) (T, error) {
	var zero T

	if value == nil {
		return zero, fmt.Errorf("hydrate: value is nil for %q", ctx.label())
	}

	current := value
	for _, hook := range d.preHooks {
		next, err := hook(ctx, current)
		if err != nil {
			return zero, fmt.Errorf("hydrate: pre-hook for %q failed: %w", ctx.label(), err)
		}
		if next != nil {
			current = next
		}
	}

	result, err := d.decode(ctx, current)
	if err != nil {
		return zero, err
	}

	for _, hook := range d.postHooks {
		if err := hook(ctx, &result); err != nil {
			return zero, fmt.Errorf("hydrate: post-hook for %q failed: %w", ctx.label(), err)
		}
	}
	return result, nil
}

func (d *Decoder[T]) decode(ctx Context, value any) (T, error) {
	var result T

	if d.custom != nil {
		out, err := d.custom(ctx, value)
		if err != nil {
			return result, fmt.Errorf("hydrate: custom decoder for %q failed: %w", ctx.label(), err)
		}
		return out, nil
	}

	if typed, ok := value.(T); ok && len(d.configureDec) == 0 {
		return typed, nil
	}

	buffer, err := json.Marshal(value)
	if err != nil {
		return result, fmt.Errorf("hydrate: marshal %q: %w", ctx.label(), err)
	}
	decoder := json.NewDecoder(bytes.NewReader(buffer))
	for _, configure := range d.configureDec {
		configure(decoder)
	}
	if err := decoder.Decode(&result); err != nil {
		return result, fmt.Errorf("hydrate: decode %q: %w", ctx.label(), err)
	}
	return result, nil
}
