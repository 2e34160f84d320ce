package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			-- Key/value blobs holding editor state
			CREATE TABLE editor_state (
				key VARCHAR(255) PRIMARY KEY,
				value TEXT NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
			);
		`,
	}
}
