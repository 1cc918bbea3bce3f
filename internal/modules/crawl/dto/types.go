package dto

type StartOutput struct {
	Mode      string
	Accepted  bool
	Message   string
	Size      int
	Collapsed bool
}
