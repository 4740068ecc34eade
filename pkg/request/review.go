package request

type Review struct {
	Name    string `validate:"required"          json:"name"`
	Rating  int    `validate:"required,min=1,max=5" json:"rating"`
	Comment string `validate:"required"          json:"comment"`
}

type Contact struct {
	Name    string `validate:"required"       json:"name"`
	Email   string `validate:"required,email" json:"email"`
	Message string `validate:"required"       json:"message"`
}
