package listediffusion

type CreateListeCommand struct {
	IDConseiller     string
	Titre            string
	IDsBeneficiaires []string
}

type UpdateListeCommand struct {
	IDListe          string
	Titre            string
	IDsBeneficiaires []string
}

type DeleteListeCommand struct {
	IDListe string
}

type GetListesDeDiffusionQuery struct {
	IDConseiller string
}
