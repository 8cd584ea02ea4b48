// StarMaps - Mood-driven film recommendation graphs
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/starmaps

package recommend

import (
	"fmt"
	"strings"
)

// Bounds are the selection targets requested from the generative service.
type Bounds struct {
	TopMin, TopMax             int
	SecondaryMin, SecondaryMax int
	LinksMin, LinksMax         int
}

// DefaultBounds asks for 4-5 top films, 10-15 related films and 25-35 links.
func DefaultBounds() Bounds {
	return Bounds{
		TopMin: 4, TopMax: 5,
		SecondaryMin: 10, SecondaryMax: 15,
		LinksMin: 25, LinksMax: 35,
	}
}

func synthesisPrompt(listing string, b Bounds) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Ты - эксперт по кино. На основе запроса выбери %d-%d фильмов из списка:\n",
		b.TopMin+b.SecondaryMin, b.TopMax+b.SecondaryMax)
	sb.WriteString(listing)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Выбери %d-%d TOP фильмов (is_top: true), остальные %d-%d - связанные (is_top: false).\n",
		b.TopMin, b.TopMax, b.SecondaryMin, b.SecondaryMax)
	sb.WriteString("Используй только id из списка.\n\n")
	sb.WriteString("Отвечай СТРОГО в JSON:\n")
	sb.WriteString(`{"nodes": [{"id": "arrival", "title": "Arrival", "title_localized": "Прибытие", "year": 2016, "vibe": "философская тишина", "is_top": true}], "links": [{"source": "arrival", "target": "her", "strength": 0.7}], "query_summary": "Краткое описание"}`)
	sb.WriteString("\n\n")
	fmt.Fprintf(&sb, "Создай %d-%d связей между фильмами. strength - число от 0 до 1.", b.LinksMin, b.LinksMax)
	return sb.String()
}

const validationPrompt = `Ты - модератор запросов сервиса подбора фильмов. Реши, подходит ли запрос пользователя для подбора фильмов.

Хороший запрос описывает жанр, настроение, темп или атмосферу, либо сравнивает с известными фильмами.
Примеры: "Как Интерстеллар, но без космоса", "Мрачный триллер с неожиданной концовкой", "Медленная атмосферная драма о памяти".

Плохой запрос слишком общий ("хороший фильм"), не относится к кино или бессмыслен ("asdf").

Отвечай СТРОГО в JSON:
{"is_valid": true, "error_message": "", "suggestions": []}

Если запрос плохой, кратко объясни причину в error_message и предложи 2-3 улучшенных запроса в suggestions.`
