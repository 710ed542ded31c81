package domain

// Flash 是一次性的用户提示消息，读取后即被清除。
type Flash struct {
	Category string `json:"category"` // success / error / info / warning
	Message  string `json:"message"`
}

// Session 是服务端保存的会话记录；Principal 为 nil 表示匿名会话。
type Session struct {
	ID        string
	Principal *Principal
}

// Authenticated 报告会话是否已绑定用户。
func (s *Session) Authenticated() bool {
	return s != nil && s.Principal != nil && s.Principal.UserID != 0
}
