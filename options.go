/*
Copyright 2025 Vimeo Inc.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package expiremap

import (
	"time"

	"github.com/vimeo/go-clocks"
)

// Option is an interface for implementing functional Map options
type Option interface {
	apply(*mapOpts)
}

// mapOpts contains optional fields for the map (each with a default value if
// not set)
type mapOpts struct {
	ttl   time.Duration
	clock clocks.Clock
	name  string
}

type funcMapOption struct {
	f func(*mapOpts)
}

func (fmo *funcMapOption) apply(o *mapOpts) {
	fmo.f(o)
}

func newFuncMapOption(f func(*mapOpts)) *funcMapOption {
	return &funcMapOption{f: f}
}

// WithTTL sets the sliding expiration window: an entry expires once it has
// gone longer than ttl without being written or successfully read. A
// non-positive ttl disables expiration entirely, which is also the default.
func WithTTL(ttl time.Duration) Option {
	return newFuncMapOption(func(o *mapOpts) {
		o.ttl = ttl
	})
}

// WithClock allows the client to specify a time source for expiration
// checks; defaults to the wall clock. Useful with a fake clock in tests.
func WithClock(clock clocks.Clock) Option {
	return newFuncMapOption(func(o *mapOpts) {
		o.clock = clock
	})
}

// WithName allows the client to specify the name tagged on this map's
// recorded measures; defaults to "default".
func WithName(name string) Option {
	return newFuncMapOption(func(o *mapOpts) {
		o.name = name
	})
}

// ConfigError reports an invalid construction option. It is returned by New;
// a Map is never constructed half-configured.
type ConfigError struct {
	Option string
	Reason string
}

func (e *ConfigError) Error() string {
	return "expiremap: invalid " + e.Option + ": " + e.Reason
}
