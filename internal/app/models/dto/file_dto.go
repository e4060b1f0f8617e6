package dto

// SendFileRequest is the body of POST /students/:id/files
type SendFileRequest struct {
	File     string   `json:"file" binding:"required,base64" example:"JVBERi0xLjQK..."`
	Title    string   `json:"title" binding:"required,min=5,max=255" example:"Zeugnis 2024"`
	Filename string   `json:"filename" binding:"required,min=5,max=255" example:"zeugnis.pdf"`
	Mimetype string   `json:"mimetype" binding:"required" example:"application/pdf"`
	Tags     []string `json:"tags,omitempty"`
}

// SendAbiturzeugnisRequest is the body of POST /students/:id/files/abiturzeugnis.
// Omitted fields fall back to the Abiturzeugnis defaults.
type SendAbiturzeugnisRequest struct {
	File     string   `json:"file" binding:"required,base64"`
	Title    string   `json:"title,omitempty" binding:"omitempty,min=5,max=255"`
	Filename string   `json:"filename,omitempty" binding:"omitempty,min=5,max=255"`
	Mimetype string   `json:"mimetype,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}
