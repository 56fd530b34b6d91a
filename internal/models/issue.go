package models

type Issue struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

type Comment struct {
	Author string `json:"author"`
	Body   string `json:"body"`
}
