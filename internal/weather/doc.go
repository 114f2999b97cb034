// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package weather fetches current conditions from the OpenWeather API.
//
// Results are reduced to what the home screen shows: a formatted
// temperature ("72°F") and an icon URL. Requests are rate limited so a short
// polling cadence cannot exhaust the API quota.
package weather
