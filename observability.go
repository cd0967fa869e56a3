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
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

const unitDimensionless = "1"

// Opencensus stats
var (
	MGets        = stats.Int64("gets", "The number of Get calls", unitDimensionless)
	MHits        = stats.Int64("hits", "The number of Gets that found a live entry", unitDimensionless)
	MMisses      = stats.Int64("misses", "The number of Gets that found nothing, or only an expired entry", unitDimensionless)
	MPuts        = stats.Int64("puts", "The number of Put calls", unitDimensionless)
	MRemoves     = stats.Int64("removes", "The number of Removes that removed an entry", unitDimensionless)
	MExpirations = stats.Int64("expirations", "The number of entries removed by the expiration sweep", unitDimensionless)
	MItems       = stats.Int64("items", "The number of tracked entries, including not-yet-swept expired ones", unitDimensionless)
)

// MapKey tags the name of the map
var MapKey = tag.MustNewKey("map")

// AllViews is a slice of default views for people to use
var AllViews = []*view.View{
	{Name: "expiremap/gets", Description: "The number of Get calls", TagKeys: []tag.Key{MapKey}, Measure: MGets, Aggregation: view.Count()},
	{Name: "expiremap/hits", Description: "The number of Gets that found a live entry", TagKeys: []tag.Key{MapKey}, Measure: MHits, Aggregation: view.Count()},
	{Name: "expiremap/misses", Description: "The number of Gets that found nothing, or only an expired entry", TagKeys: []tag.Key{MapKey}, Measure: MMisses, Aggregation: view.Count()},
	{Name: "expiremap/puts", Description: "The number of Put calls", TagKeys: []tag.Key{MapKey}, Measure: MPuts, Aggregation: view.Count()},
	{Name: "expiremap/removes", Description: "The number of Removes that removed an entry", TagKeys: []tag.Key{MapKey}, Measure: MRemoves, Aggregation: view.Count()},
	{Name: "expiremap/expirations", Description: "The number of entries removed by the expiration sweep", TagKeys: []tag.Key{MapKey}, Measure: MExpirations, Aggregation: view.Count()},
	{Name: "expiremap/items", Description: "The number of tracked entries, including not-yet-swept expired ones", TagKeys: []tag.Key{MapKey}, Measure: MItems, Aggregation: view.LastValue()},
}
