package memberships

func memberFromRow(row MemberWithProfile) MemberDTO {
	dto := ToDTO(&row.LedgerMember)
	dto.Email = row.Email
	dto.FullName = copyStringPointer(row.FullName)
	dto.AvatarURL = copyStringPointer(row.AvatarURL)
	return *dto
}

// MembersToDTO converts joined member rows for transport.
func MembersToDTO(rows []MemberWithProfile) []MemberDTO {
	out := make([]MemberDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, memberFromRow(row))
	}
	return out
}

func copyStringPointer(src *string) *string {
	if src == nil {
		return nil
	}
	dst := *src
	return &dst
}
