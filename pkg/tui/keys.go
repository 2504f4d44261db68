/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Open        key.Binding
	Back        key.Binding
	Simulate    key.Binding
	Detect      key.Binding
	Seed        key.Binding
	ForceSeed   key.Binding
	Services    key.Binding
	Resolve     key.Binding
	Postmortem  key.Binding
	Copy        key.Binding
	Logs        key.Binding
	NextService key.Binding
	Help        key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Open:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "incident detail")),
		Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Simulate:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "simulate")),
		Detect:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "run detection")),
		Seed:        key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "seed")),
		ForceSeed:   key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "reseed")),
		Services:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "refresh services")),
		Resolve:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "resolve")),
		Postmortem:  key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "postmortem")),
		Copy:        key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy")),
		Logs:        key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "service logs")),
		NextService: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next service")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Simulate, k.Detect, k.Services, k.Open, k.Logs, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Open, k.Back},
		{k.Simulate, k.Detect, k.Seed, k.ForceSeed, k.Services},
		{k.Resolve, k.Postmortem, k.Copy},
		{k.NextService, k.Logs, k.Help, k.Quit},
	}
}
